package tapedevice

import "testing"

func TestParameterMatches(t *testing.T) {
	cases := []struct {
		p    Parameter
		kind ParameterKind
		want bool
	}{
		{NewDataReg(RegACC), KindRegisters, true},
		{NewAddrReg(RegA0), KindRegisters, true},
		{NewNumber(5), KindRegisters, false},
		{NewAddr(100), KindAddresses, true},
		{NewLabel("foo"), KindAddresses, true},
		{NewNumber(5), KindAddresses, false},
	}
	for _, c := range cases {
		if got := c.p.Matches(c.kind); got != c.want {
			t.Errorf("%+v.Matches(%s) = %v, want %v", c.p, c.kind, got, c.want)
		}
	}
}

func TestParameterSize(t *testing.T) {
	if NewNumber(1).Size() != 1 {
		t.Error("Number should be 1 byte")
	}
	if NewDataReg(RegD0).Size() != 1 {
		t.Error("DataReg should be 1 byte")
	}
	if NewLabel("x").Size() != 2 {
		t.Error("Label should be 2 bytes")
	}
	if NewAddr(1).Size() != 2 {
		t.Error("Addr should be 2 bytes")
	}
}

func TestParameterSymbolic(t *testing.T) {
	if !NewLabel("x").Symbolic() {
		t.Error("Label should be symbolic")
	}
	if !NewStrKey("x").Symbolic() {
		t.Error("StrKey should be symbolic")
	}
	if !NewDataKey("x").Symbolic() {
		t.Error("DataKey should be symbolic")
	}
	if NewNumber(1).Symbolic() {
		t.Error("Number should not be symbolic")
	}
	if NewAddr(1).Symbolic() {
		t.Error("Addr should not be symbolic")
	}
}
