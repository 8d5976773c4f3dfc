package protocol_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ukagaka/shiori/protocol"
)

var _ = Describe("Messages", func() {
	Describe("Request accessors", func() {
		It("fails with ErrMissingHeader instead of defaulting", func() {
			req := protocol.NewRequest(protocol.GET, "3.0")

			_, err := req.ID()
			Expect(errors.Is(err, protocol.ErrMissingHeader)).To(BeTrue())

			_, err = req.Reference(0)
			Expect(errors.Is(err, protocol.ErrMissingHeader)).To(BeTrue())
		})

		It("stores typed values as their canonical string encoding", func() {
			req := protocol.NewRequest(protocol.GET, "3.0")
			req.SetSecurityLevel(protocol.SecurityLevelExternal)

			Expect(req.Headers.Get("SecurityLevel")).To(Equal("external"))
			Expect(req.SecurityLevel()).To(Equal(protocol.SecurityLevelExternal))
		})

		It("rejects a SecurityLevel outside the recognized set", func() {
			req := protocol.NewRequest(protocol.GET, "3.0")
			req.Headers.Set("SecurityLevel", "galactic")

			_, err := req.SecurityLevel()
			Expect(errors.Is(err, protocol.ErrUnknownEnumValue)).To(BeTrue())
		})

		It("composes Reference<N> names from the index at access time", func() {
			req := protocol.NewRequest(protocol.GETSentence, "2.2")
			req.SetReference(0, "zeroth")
			req.SetReference(41, "forty-first")

			Expect(req.Headers.Get("Reference0")).To(Equal("zeroth"))
			Expect(req.Headers.Get("Reference41")).To(Equal("forty-first"))
			Expect(req.Reference(41)).To(Equal("forty-first"))
		})

		It("reads the baseware Status and BaseId headers", func() {
			req := protocol.NewRequest(protocol.GET, "3.0")
			req.SetStatus("talking,online")
			req.SetBaseID("OnBoot")

			Expect(req.Status()).To(Equal("talking,online"))
			Expect(req.BaseID()).To(Equal("OnBoot"))
		})
	})

	Describe("Response accessors", func() {
		It("exposes the status as an integer", func() {
			resp := protocol.NewResponse(protocol.StatusAdvice, "3.0")
			Expect(resp.StatusCode()).To(Equal(312))
		})

		It("rejects assigning an unrecognized status code", func() {
			resp := protocol.NewResponse(protocol.StatusOK, "3.0")

			err := resp.SetStatusCode(999)
			Expect(errors.Is(err, protocol.ErrUnknownEnumValue)).To(BeTrue())

			// The previous status survives a failed assignment
			Expect(resp.Status).To(Equal(protocol.StatusOK))

			Expect(resp.SetStatusCode(204)).To(Succeed())
			Expect(resp.Status).To(Equal(protocol.StatusNoContent))
		})

		It("encodes ErrorLevel as its literal name", func() {
			resp := protocol.NewResponse(protocol.StatusInternalServerError, "3.0")
			resp.SetErrorLevel(protocol.ErrorLevelCritical)
			resp.SetErrorDescription("dictionary is gone")

			Expect(resp.Headers.Get("ErrorLevel")).To(Equal("critical"))
			Expect(resp.ErrorLevel()).To(Equal(protocol.ErrorLevelCritical))
			Expect(resp.ErrorDescription()).To(Equal("dictionary is gone"))
		})

		It("rejects an ErrorLevel outside the recognized set", func() {
			resp := protocol.NewResponse(protocol.StatusOK, "3.0")
			resp.Headers.Set("ErrorLevel", "fatal")

			_, err := resp.ErrorLevel()
			Expect(errors.Is(err, protocol.ErrUnknownEnumValue)).To(BeTrue())
		})

		It("reads Value, Marker and RequestCharset", func() {
			resp := protocol.NewResponse(protocol.StatusOK, "3.0")
			resp.SetValue(`\h\s[0]Yes.\e`)
			resp.SetMarker("ghost:")
			resp.SetRequestCharset("Shift_JIS")

			Expect(resp.Value()).To(Equal(`\h\s[0]Yes.\e`))
			Expect(resp.Marker()).To(Equal("ghost:"))
			Expect(resp.RequestCharset()).To(Equal("Shift_JIS"))
		})
	})
})
