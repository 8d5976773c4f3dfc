package ghost_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/ukagaka/shiori/ghost"
	"github.com/ukagaka/shiori/protocol"
	"github.com/ukagaka/shiori/storage"
)

var _ = Describe("ghost / Responder", func() {
	var (
		store     *storage.InmemoryStore
		responder *ghost.Responder
	)

	BeforeEach(func() {
		store = storage.NewInmemoryStore()
		responder = ghost.NewResponder(store, "testghost", "0.1.0", zap.NewNop())
	})

	AfterEach(func() {
		store.Close()
	})

	handle := func(req *protocol.Request) *protocol.Response {
		resp, err := responder.Handle(context.Background(), req)
		Expect(err).To(Succeed())
		return resp
	}

	Describe("GET", func() {
		It("answers 200 with the taught script", func() {
			Expect(store.Teach(context.Background(), "OnBoot", `\h\s[0]Hello.\e`)).To(Succeed())

			req := protocol.NewRequest(protocol.GET, "3.0")
			req.SetID("OnBoot")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusOK))
			Expect(resp.Version).To(Equal("3.0"))
			Expect(resp.Value()).To(Equal(`\h\s[0]Hello.\e`))
			Expect(resp.Sender()).To(Equal("testghost"))
		})

		It("answers 204 when the dictionary has no entry", func() {
			req := protocol.NewRequest(protocol.GET, "3.0")
			req.SetID("OnNeverTaught")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusNoContent))
		})

		It("answers 400 when the ID header is missing", func() {
			resp := handle(protocol.NewRequest(protocol.GET, "3.0"))
			Expect(resp.Status).To(Equal(protocol.StatusBadRequest))
			Expect(resp.ErrorLevel()).To(Equal(protocol.ErrorLevelWarning))
		})
	})

	Describe("GET Version", func() {
		It("answers with the module version", func() {
			resp := handle(protocol.NewRequest(protocol.GETVersion, "2.6"))
			Expect(resp.Status).To(Equal(protocol.StatusOK))
			Expect(resp.Version).To(Equal("2.6"))
			Expect(resp.Value()).To(Equal("0.1.0"))
		})
	})

	Describe("NOTIFY", func() {
		It("acknowledges with 204", func() {
			req := protocol.NewRequest(protocol.NOTIFY, "3.0")
			req.SetID("OnSecondChange")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusNoContent))
		})
	})

	Describe("TEACH", func() {
		It("learns Reference0 → Reference1 and answers 200", func() {
			req := protocol.NewRequest(protocol.TEACH, "3.0")
			req.SetReference(0, "OnTaught")
			req.SetReference(1, "a new script")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusOK))

			script, ok, err := store.Lookup(context.Background(), "OnTaught")
			Expect(err).To(Succeed())
			Expect(ok).To(BeTrue())
			Expect(script).To(Equal("a new script"))
		})

		It("answers 311 when references are missing", func() {
			req := protocol.NewRequest(protocol.TEACH, "3.0")
			req.SetReference(0, "OnTaught")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusNotEnough))
		})

		It("refuses external senders", func() {
			req := protocol.NewRequest(protocol.TEACH, "3.0")
			req.SetSecurityLevel(protocol.SecurityLevelExternal)
			req.SetReference(0, "OnTaught")
			req.SetReference(1, "evil script")

			resp := handle(req)
			Expect(resp.Status).To(Equal(protocol.StatusBadRequest))

			_, ok, err := store.Lookup(context.Background(), "OnTaught")
			Expect(err).To(Succeed())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("unsupported methods", func() {
		It("answers 400 with a notice", func() {
			resp := handle(protocol.NewRequest(protocol.TRANSLATESentence, "2.6"))
			Expect(resp.Status).To(Equal(protocol.StatusBadRequest))
			Expect(resp.ErrorLevel()).To(Equal(protocol.ErrorLevelNotice))
		})
	})
})
