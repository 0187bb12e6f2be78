package llm_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/common/llm"
)

type scriptedClient struct {
	errs  []error
	calls int
}

func (c *scriptedClient) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return &llm.CompletionResponse{Text: "ok"}, nil
}

func (c *scriptedClient) Model() string { return "scripted" }

var _ = Describe("WithRetry", func() {
	var (
		ctx    context.Context
		delays []time.Duration
		policy llm.RetryPolicy
	)

	BeforeEach(func() {
		ctx = context.Background()
		delays = nil
		policy = llm.RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   100 * time.Millisecond,
			Retryable:   func(context.Context, error) bool { return true },
			Sleep: func(_ context.Context, d time.Duration) error {
				delays = append(delays, d)
				return nil
			},
		}
	})

	It("returns the first successful response", func() {
		inner := &scriptedClient{errs: []error{errors.New("boom"), nil}}
		client := llm.WithRetry(inner, policy)

		resp, err := client.Complete(ctx, llm.CompletionRequest{Prompt: "hi"})

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Text).To(Equal("ok"))
		Expect(inner.calls).To(Equal(2))
		Expect(delays).To(Equal([]time.Duration{100 * time.Millisecond}))
	})

	It("backs off exponentially and gives up after MaxAttempts", func() {
		inner := &scriptedClient{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
		client := llm.WithRetry(inner, policy)

		_, err := client.Complete(ctx, llm.CompletionRequest{Prompt: "hi"})

		Expect(err).To(MatchError("c"))
		Expect(inner.calls).To(Equal(3))
		Expect(delays).To(Equal([]time.Duration{100 * time.Millisecond, 200 * time.Millisecond}))
	})

	It("does not retry errors the policy rejects", func() {
		policy.Retryable = func(context.Context, error) bool { return false }
		inner := &scriptedClient{errs: []error{errors.New("bad request")}}
		client := llm.WithRetry(inner, policy)

		_, err := client.Complete(ctx, llm.CompletionRequest{Prompt: "hi"})

		Expect(err).To(MatchError("bad request"))
		Expect(inner.calls).To(Equal(1))
		Expect(delays).To(BeEmpty())
	})

	It("keeps the wrapped model name", func() {
		Expect(llm.WithRetry(&scriptedClient{}, policy).Model()).To(Equal("scripted"))
	})
})

var _ = Describe("IsRetryable", func() {
	It("never retries cancelled contexts", func() {
		Expect(llm.IsRetryable(context.Background(), context.Canceled)).To(BeFalse())
		Expect(llm.IsRetryable(context.Background(), context.DeadlineExceeded)).To(BeFalse())
	})

	It("retries plain network errors", func() {
		Expect(llm.IsRetryable(context.Background(), errors.New("connection reset"))).To(BeTrue())
	})

	It("is false for nil", func() {
		Expect(llm.IsRetryable(context.Background(), nil)).To(BeFalse())
	})
})

var _ = Describe("NewTextClient", func() {
	It("requires an API key", func() {
		client, err := llm.NewTextClient(llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(HaveOccurred())
		Expect(client).To(BeNil())
	})

	It("rejects unknown providers", func() {
		_, err := llm.NewTextClient(llm.Config{Provider: "bard", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported LLM provider")))
	})

	It("builds both providers", func() {
		openaiClient, err := llm.NewTextClient(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"})
		Expect(err).NotTo(HaveOccurred())
		Expect(openaiClient.Model()).To(Equal("gpt-4o-mini"))

		anthropicClient, err := llm.NewTextClient(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", MaxAttempts: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(anthropicClient.Model()).To(Equal("claude-sonnet-4-5-20250514"))
	})
})
