package storage_test

import (
	"context"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ukagaka/shiori/storage"
)

var _ = Describe("storage / InmemoryStore", func() {
	Describe("Close()", func() {
		It("does not panic when closed twice", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(func() { store.Close() }).NotTo(Panic())
			Expect(func() { store.Close() }).NotTo(Panic())
		})

		It("does not panic when closed concurrently", func() {
			store := storage.NewInmemoryStore()

			var wg sync.WaitGroup
			for n := 0; n < 8; n++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					Expect(store.Close()).To(Succeed())
				}()
			}

			wg.Wait()
		})
	})

	It("an empty dictionary backs up as {}", func() {
		store := storage.NewInmemoryStore()
		defer store.Close()

		talks, err := store.Backup()
		Expect(err).To(Succeed())
		Expect(string(talks)).To(Equal(`{}`))
	})

	Describe("Teach() / Lookup()", func() {
		It("can look up an event that was taught", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			err := store.Teach(context.Background(), "OnBoot", `\h\s[0]Hello.\e`)
			Expect(err).To(Succeed())

			script, ok, err := store.Lookup(context.Background(), "OnBoot")
			Expect(err).To(Succeed())
			Expect(ok).To(BeTrue())
			Expect(script).To(Equal(`\h\s[0]Hello.\e`))

			talks, err := store.Backup()
			Expect(err).To(Succeed())
			Expect(string(talks)).To(Equal(`{"OnBoot":"\\h\\s[0]Hello.\\e"}`))
		})

		It("misses events that were never taught", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			_, ok, err := store.Lookup(context.Background(), "OnClose")
			Expect(err).To(Succeed())
			Expect(ok).To(BeFalse())
		})

		It("sends on the update channel when entries are taught", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			updateChan := store.ListenToUpdates()
			err := store.Teach(context.Background(), "OnBoot", "hi")
			Expect(err).To(Succeed())

			update, ok := <-updateChan
			Expect(ok).To(BeTrue())
			Expect(update).To(Equal(&storage.Update{
				Event:  "OnBoot",
				Script: "hi",
			}))
		})

		It("keeps teaching when a listener stops draining updates", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			// Never read from the channel; teach past its buffer.
			store.ListenToUpdates()

			for n := 0; n < 300; n++ {
				err := store.Teach(context.Background(), fmt.Sprintf("OnEvent%d", n), "hi")
				Expect(err).To(Succeed())
			}
		})
	})

	Describe("Restore()", func() {
		It("replaces the whole dictionary", func() {
			store := storage.NewInmemoryStore()
			defer store.Close()

			Expect(store.Restore([]byte(`{"OnClose":"bye"}`))).To(Succeed())

			script, ok, err := store.Lookup(context.Background(), "OnClose")
			Expect(err).To(Succeed())
			Expect(ok).To(BeTrue())
			Expect(script).To(Equal("bye"))
		})
	})
})
