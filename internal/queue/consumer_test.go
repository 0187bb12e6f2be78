package queue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"orion.app/api/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("decodes a deep analysis job", func() {
		job := queue.AnalysisJob{
			ProjectID: 1845602349871104,
			UserID:    77,
			DeepFiles: []string{"src/app.ts", "src/db.ts"},
			TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
		}

		msg, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: queue.JobValues(job, 2)})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.TraceID).To(Equal(job.TraceID))
		Expect(msg.Job.ProjectID).To(Equal(job.ProjectID))
		Expect(msg.Job.UserID).To(Equal(job.UserID))
		Expect(msg.Job.DeepFiles).To(Equal(job.DeepFiles))
	})

	It("defaults the attempt to 1 and leaves deep files empty for quick jobs", func() {
		msg, err := queue.ParseMessage(redis.XMessage{ID: "2-0", Values: map[string]any{
			"project_id": "10",
			"user_id":    "20",
		}})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.Job.DeepFiles).To(BeEmpty())
	})

	It("accepts values as Redis returns them", func() {
		msg, err := queue.ParseMessage(redis.XMessage{ID: "3-0", Values: map[string]any{
			"project_id": "10",
			"user_id":    "20",
			"attempt":    "3",
			"deep_files": `["a.ts"]`,
		}})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(3))
		Expect(msg.Job.DeepFiles).To(Equal([]string{"a.ts"}))
	})

	DescribeTable("rejects malformed entries",
		func(values map[string]any, want string) {
			_, err := queue.ParseMessage(redis.XMessage{ID: "4-0", Values: values})
			Expect(err).To(MatchError(ContainSubstring(want)))
		},
		Entry("missing project", map[string]any{"user_id": "1"}, "missing project_id"),
		Entry("missing user", map[string]any{"project_id": "1"}, "missing user_id"),
		Entry("non-numeric project", map[string]any{"project_id": "abc", "user_id": "1"}, "parsing project_id"),
		Entry("bad deep files", map[string]any{"project_id": "1", "user_id": "1", "deep_files": "[oops"}, "parsing deep_files"),
		Entry("bad attempt", map[string]any{"project_id": "1", "user_id": "1", "attempt": "x"}, "parsing attempt"),
	)
})

var _ = Describe("JobValues", func() {
	It("omits optional fields", func() {
		values := queue.JobValues(queue.AnalysisJob{ProjectID: 1, UserID: 2}, 0)

		Expect(values).To(HaveKeyWithValue("attempt", 1))
		Expect(values).NotTo(HaveKey("deep_files"))
		Expect(values).NotTo(HaveKey("trace_id"))
	})
})
