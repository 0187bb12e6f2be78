package progress_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/internal/progress"
)

var _ = Describe("MemoryBroker", func() {
	var (
		ctx    context.Context
		broker *progress.MemoryBroker
	)

	BeforeEach(func() {
		ctx = context.Background()
		broker = progress.NewMemoryBroker()
	})

	It("delivers events only to subscribers of the same project", func() {
		subA, err := broker.Subscribe(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		defer subA.Close()
		subB, err := broker.Subscribe(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		defer subB.Close()

		Expect(broker.Publish(ctx, progress.NewEvent(1, progress.StatusScanning, "Scanning files"))).To(Succeed())

		var got progress.Event
		Eventually(subA.Events()).Should(Receive(&got))
		Expect(got.Status).To(Equal(progress.StatusScanning))
		Expect(got.Progress).To(Equal(10))
		Consistently(subB.Events()).ShouldNot(Receive())
	})

	It("does not replay events published before subscribing", func() {
		Expect(broker.Publish(ctx, progress.NewEvent(1, progress.StatusQueued, "queued"))).To(Succeed())

		sub, err := broker.Subscribe(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		defer sub.Close()

		Consistently(sub.Events()).ShouldNot(Receive())
	})

	It("removes the subscriber on close and tolerates double close", func() {
		sub, err := broker.Subscribe(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(broker.SubscriberCount(7)).To(Equal(1))

		sub.Close()
		sub.Close()

		Expect(broker.SubscriberCount(7)).To(Equal(0))
		Eventually(sub.Events()).Should(BeClosed())
		Expect(broker.Publish(ctx, progress.NewEvent(7, progress.StatusMerging, "merging"))).To(Succeed())
	})

	It("drops events for a subscriber that stops reading instead of blocking", func() {
		sub, err := broker.Subscribe(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		defer sub.Close()

		for i := 0; i < 100; i++ {
			Expect(broker.Publish(ctx, progress.NewEvent(3, progress.StatusScanning, "tick"))).To(Succeed())
		}

		received := 0
		for len(sub.Events()) > 0 {
			<-sub.Events()
			received++
		}
		Expect(received).To(BeNumerically(">", 0))
		Expect(received).To(BeNumerically("<", 100))
	})

	It("survives concurrent publish and close", func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			sub, err := broker.Subscribe(ctx, 9)
			Expect(err).NotTo(HaveOccurred())
			wg.Add(2)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				for j := 0; j < 50; j++ {
					Expect(broker.Publish(ctx, progress.NewEvent(9, progress.StatusIndexing, "x"))).To(Succeed())
				}
			}()
			go func() {
				defer wg.Done()
				sub.Close()
			}()
		}
		wg.Wait()
		Expect(broker.SubscriberCount(9)).To(Equal(0))
	})

	It("refuses to subscribe with a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := broker.Subscribe(cctx, 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Status", func() {
	DescribeTable("reports a fixed percentage",
		func(status progress.Status, want int) {
			Expect(status.Percent()).To(Equal(want))
		},
		Entry("queued", progress.StatusQueued, 0),
		Entry("scanning", progress.StatusScanning, 10),
		Entry("indexing", progress.StatusIndexing, 20),
		Entry("structural", progress.StatusStructural, 30),
		Entry("dimensions", progress.StatusDimensions, 60),
		Entry("deep", progress.StatusDeep, 70),
		Entry("merging", progress.StatusMerging, 90),
		Entry("completed", progress.StatusCompleted, 100),
		Entry("error", progress.StatusError, 0),
	)

	It("marks completed and error as terminal", func() {
		Expect(progress.StatusCompleted.Terminal()).To(BeTrue())
		Expect(progress.StatusError.Terminal()).To(BeTrue())
		Expect(progress.StatusMerging.Terminal()).To(BeFalse())
	})
})
