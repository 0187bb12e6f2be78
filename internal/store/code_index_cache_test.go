package store_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/internal/model"
	"orion.app/api/internal/store"
)

type fakeCodeIndexStore struct {
	rows     map[int64]model.StoredCodeIndex
	gets     int
	failNext error
}

func (f *fakeCodeIndexStore) Upsert(_ context.Context, index model.CodeIndex) (*model.StoredCodeIndex, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	row := f.rows[index.ProjectID]
	row.Index = index
	row.Version++
	row.UpdatedAt = time.Now()
	f.rows[index.ProjectID] = row
	return &row, nil
}

func (f *fakeCodeIndexStore) Get(_ context.Context, projectID int64) (*model.StoredCodeIndex, error) {
	f.gets++
	row, ok := f.rows[projectID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &row, nil
}

var _ = Describe("cached code index store", func() {
	var (
		ctx   context.Context
		inner *fakeCodeIndexStore
		s     store.CodeIndexStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		inner = &fakeCodeIndexStore{rows: map[int64]model.StoredCodeIndex{}}
		s = store.NewCachedCodeIndexStore(inner, 8, time.Minute)
	})

	It("serves repeated reads from memory", func() {
		inner.rows[1] = model.StoredCodeIndex{Index: model.CodeIndex{ProjectID: 1}, Version: 3}

		first, err := s.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		second, err := s.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Version).To(Equal(int32(3)))
		Expect(second.Version).To(Equal(int32(3)))
		Expect(inner.gets).To(Equal(1))
	})

	It("refreshes the cached entry on upsert", func() {
		_, err := s.Upsert(ctx, model.CodeIndex{ProjectID: 2})
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Upsert(ctx, model.CodeIndex{ProjectID: 2})
		Expect(err).NotTo(HaveOccurred())

		got, err := s.Get(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Version).To(Equal(int32(2)))
		Expect(inner.gets).To(Equal(0))
	})

	It("drops the cached entry when an upsert fails", func() {
		inner.rows[3] = model.StoredCodeIndex{Version: 1}
		_, err := s.Get(ctx, 3)
		Expect(err).NotTo(HaveOccurred())

		inner.failNext = errors.New("connection reset")
		_, err = s.Upsert(ctx, model.CodeIndex{ProjectID: 3})
		Expect(err).To(HaveOccurred())

		_, err = s.Get(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(inner.gets).To(Equal(2))
	})

	It("passes not found through without caching it", func() {
		_, err := s.Get(ctx, 99)
		Expect(err).To(MatchError(store.ErrNotFound))
		_, err = s.Get(ctx, 99)
		Expect(err).To(MatchError(store.ErrNotFound))
		Expect(inner.gets).To(Equal(2))
	})

	It("sees rows written by another process once the entry expires", func() {
		inner.rows[4] = model.StoredCodeIndex{Index: model.CodeIndex{ProjectID: 4}, Version: 1}
		api := store.NewCachedCodeIndexStore(inner, 8, 20*time.Millisecond)
		worker := store.NewCachedCodeIndexStore(inner, 8, 20*time.Millisecond)

		got, err := api.Get(ctx, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Version).To(Equal(int32(1)))

		written, err := worker.Upsert(ctx, model.CodeIndex{ProjectID: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(written.Version).To(Equal(int32(2)))

		Eventually(func() int32 {
			got, err := api.Get(ctx, 4)
			Expect(err).NotTo(HaveOccurred())
			return got.Version
		}).WithTimeout(time.Second).WithPolling(10 * time.Millisecond).Should(Equal(int32(2)))
	})
})
