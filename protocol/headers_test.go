package protocol_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ukagaka/shiori/protocol"
)

var _ = Describe("Headers", func() {
	It("fails with ErrMissingHeader for absent names", func() {
		h := protocol.NewHeaders()

		_, err := h.Get("ID")
		Expect(errors.Is(err, protocol.ErrMissingHeader)).To(BeTrue())
	})

	It("preserves insertion order", func() {
		h := protocol.NewHeaders()
		h.Set("Charset", "UTF-8")
		h.Set("ID", "OnBoot")
		h.Set("Sender", "materia")

		Expect(h.Names()).To(Equal([]string{"Charset", "ID", "Sender"}))
		Expect(h.Len()).To(Equal(3))
	})

	It("overwrites on duplicate names but keeps the original position", func() {
		h := protocol.NewHeaders()
		h.Set("ID", "first")
		h.Set("Sender", "materia")
		h.Set("ID", "second")

		Expect(h.Get("ID")).To(Equal("second"))
		Expect(h.Names()).To(Equal([]string{"ID", "Sender"}))
	})

	It("iterates names and values in insertion order", func() {
		h := protocol.NewHeaders()
		h.Set("A", "1")
		h.Set("B", "2")

		var seen []string
		h.Each(func(name, value string) {
			seen = append(seen, name+"="+value)
		})

		Expect(seen).To(Equal([]string{"A=1", "B=2"}))
	})

	It("answers Has without failing", func() {
		h := protocol.NewHeaders()
		h.Set("ID", "OnBoot")

		Expect(h.Has("ID")).To(BeTrue())
		Expect(h.Has("Marker")).To(BeFalse())
	})
})
