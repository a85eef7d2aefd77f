package util

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
)

func TestValidateIdentifier(t *testing.T) {
	g := NewGomegaWithT(t)

	for _, id := range []string{"abc", "ABC_123", "$tmp", "_x", "0lead"} {
		got, err := ValidateIdentifier(id)
		g.Expect(err).To(BeNil(), id)
		g.Expect(got).To(Equal(id))
	}

	for _, id := range []string{"", "a-b", "a b", "a.b", `a"b`, "a;drop", "é"} {
		_, err := ValidateIdentifier(id)
		g.Expect(errors.Is(err, ErrInvalidIdentifier)).To(BeTrue(), id)
	}
}

func TestValidateObjectName(t *testing.T) {
	g := NewGomegaWithT(t)

	for _, name := range []string{"TABLE", "FILE FORMAT", "STORAGE INTEGRATION"} {
		got, err := ValidateObjectName(name)
		g.Expect(err).To(BeNil())
		g.Expect(got).To(Equal(name))
	}

	for _, name := range []string{"", "FILE-FORMAT", "TABLE;", "A.B"} {
		_, err := ValidateObjectName(name)
		g.Expect(errors.Is(err, ErrInvalidObjectName)).To(BeTrue(), name)
	}
}

func TestParseIdentifier(t *testing.T) {
	g := NewGomegaWithT(t)
	g.Expect(ParseIdentifier("my_table")).To(Equal("MY_TABLE"))
	g.Expect(ParseIdentifier(` "Mixed""Case" `)).To(Equal(`Mixed"Case`))
}

func TestLikePattern(t *testing.T) {
	g := NewGomegaWithT(t)
	g.Expect(LikePattern("wh1")).To(Equal("'wh1'"))
	g.Expect(LikePattern("a_b")).To(Equal(`'a\\_b'`))
	g.Expect(LikePattern("$x_y_z")).To(Equal(`'$x\\_y\\_z'`))
	g.Expect(LikePattern(`50%\`)).To(Equal(`'50\\%\\\\'`))
}

type stringer struct{}

func (stringer) String() string { return "it's" }

func TestLiteral(t *testing.T) {
	g := NewGomegaWithT(t)
	g.Expect(Literal(nil)).To(Equal("NULL"))
	g.Expect(Literal("o'brien")).To(Equal("'o''brien'"))
	g.Expect(Literal(true)).To(Equal("TRUE"))
	g.Expect(Literal(false)).To(Equal("FALSE"))
	g.Expect(Literal(42)).To(Equal("42"))
	g.Expect(Literal(int64(-7))).To(Equal("-7"))
	g.Expect(Literal(1.5)).To(Equal("1.5"))
	g.Expect(Literal(stringer{})).To(Equal("'it''s'"))
	g.Expect(Literal(fmt.Errorf("x"))).To(Equal("'x'"))
}
