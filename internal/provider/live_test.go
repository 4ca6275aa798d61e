package provider_test

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joho/godotenv"

	"github.com/fraudlens-ai/fraudlens/internal/httpclient"
	"github.com/fraudlens-ai/fraudlens/internal/provider"
	"github.com/fraudlens-ai/fraudlens/internal/resilience"
	"github.com/fraudlens-ai/fraudlens/internal/session"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

func TestProviderSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provider Suite")
}

var _ = BeforeSuite(func() {
	_ = godotenv.Load("../../.env")
})

const liveCaseContext = "Card-not-present purchase of $842 at 03:12 local time, " +
	"first transaction with this merchant, account normally dormant overnight."

func liveInvoker() *resilience.Invoker {
	return resilience.NewInvoker(types.ResilienceConfig{MaxAttempts: 2})
}

var _ = Describe("OpenAIProvider", func() {
	var (
		ctx context.Context
		p   *provider.OpenAIProvider
	)

	BeforeEach(func() {
		if os.Getenv("OPENAI_API_KEY") == "" {
			Skip("OPENAI_API_KEY not set")
		}

		ctx = context.Background()
		var err error
		p, err = provider.NewOpenAIProvider(ctx, &provider.OpenAIConfig{MaxTokens: 256}, liveInvoker())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should report its identity", func() {
		Expect(p.ID()).To(Equal("openai"))
		Expect(p.Name()).To(Equal("OpenAI"))
		Expect(p.Models()).NotTo(BeEmpty())
	})

	It("should validate connectivity", func() {
		res := p.Validate(ctx)
		Expect(res.OK).To(BeTrue(), res.Detail)
		Expect(res.Provider).To(Equal("openai"))
		Expect(res.ElapsedMS).To(BeNumerically(">=", 0))
	})

	It("should analyze alert evidence", func() {
		resp, err := p.Analyze(ctx, liveCaseContext, "Is this consistent with card fraud? Answer briefly.")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).NotTo(BeEmpty())
	})

	It("should carry session history across turns", func() {
		store := session.NewStore()
		sess, _ := store.Create("")
		sess.Append(types.NewMessage(types.RoleUser, "Remember the case number FL-4417."))
		sess.Append(types.NewMessage(types.RoleAssistant, "Noted, case FL-4417."))

		resp, err := p.SendMessage(ctx, sess, "What case number did I mention? Reply with just the number.")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).To(ContainSubstring("4417"))
	})
})

var _ = Describe("GeminiProvider", func() {
	var (
		ctx context.Context
		p   *provider.GeminiProvider
	)

	BeforeEach(func() {
		if os.Getenv("GEMINI_API_KEY") == "" {
			Skip("GEMINI_API_KEY not set")
		}

		ctx = context.Background()
		var err error
		p, err = provider.NewGeminiProvider(ctx, &provider.GeminiConfig{MaxTokens: 256}, liveInvoker())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should report its identity", func() {
		Expect(p.ID()).To(Equal("gemini"))
		Expect(p.Name()).To(Equal("Google Gemini"))
		Expect(p.Models()).NotTo(BeEmpty())
	})

	It("should validate connectivity", func() {
		res := p.Validate(ctx)
		Expect(res.OK).To(BeTrue(), res.Detail)
	})

	It("should analyze alert evidence", func() {
		resp, err := p.Analyze(ctx, liveCaseContext, "Is this consistent with card fraud? Answer briefly.")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).NotTo(BeEmpty())
	})
})

var _ = Describe("ArkProvider", func() {
	var (
		ctx context.Context
		p   *provider.ArkProvider
	)

	BeforeEach(func() {
		if os.Getenv("ARK_API_KEY") == "" || os.Getenv("ARK_MODEL_ID") == "" {
			Skip("ARK environment variables not set")
		}

		ctx = context.Background()
		var err error
		p, err = provider.NewArkProvider(ctx, &provider.ArkConfig{MaxTokens: 256}, liveInvoker())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should report its identity", func() {
		Expect(p.ID()).To(Equal("ark"))
		Expect(p.Name()).To(Equal("ARK"))
	})

	It("should validate connectivity", func() {
		res := p.Validate(ctx)
		Expect(res.OK).To(BeTrue(), res.Detail)
	})
})

var _ = Describe("AnthropicProvider", func() {
	var (
		ctx context.Context
		p   *provider.AnthropicProvider
	)

	BeforeEach(func() {
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			Skip("ANTHROPIC_API_KEY not set")
		}

		ctx = context.Background()
		factory := httpclient.NewFactory(types.HTTPClientConfig{Timeout: 60 * time.Second})
		var err error
		p, err = provider.NewAnthropicProvider(&provider.AnthropicConfig{
			Model:     "claude-3-5-haiku-20241022",
			MaxTokens: 256,
		}, liveInvoker(), factory)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should report its identity", func() {
		Expect(p.ID()).To(Equal("anthropic"))
		Expect(p.Name()).To(Equal("Anthropic"))
	})

	It("should validate connectivity", func() {
		res := p.Validate(ctx)
		Expect(res.OK).To(BeTrue(), res.Detail)
	})

	It("should analyze alert evidence", func() {
		resp, err := p.Analyze(ctx, liveCaseContext, "Is this consistent with card fraud? Answer briefly.")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).NotTo(BeEmpty())
	})

	It("should handle context cancellation", func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := p.Analyze(cancelCtx, liveCaseContext, "Is this fraud?")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Provider Initialization", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with invalid configuration", func() {
		It("should fail without an ARK API key", func() {
			oldKey := os.Getenv("ARK_API_KEY")
			os.Unsetenv("ARK_API_KEY")
			defer func() {
				if oldKey != "" {
					os.Setenv("ARK_API_KEY", oldKey)
				}
			}()

			_, err := provider.NewArkProvider(ctx, &provider.ArkConfig{Model: "test-model"}, liveInvoker())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("API_KEY"))
		})

		It("should fail without an ARK model ID", func() {
			oldModel := os.Getenv("ARK_MODEL_ID")
			os.Unsetenv("ARK_MODEL_ID")
			defer func() {
				if oldModel != "" {
					os.Setenv("ARK_MODEL_ID", oldModel)
				}
			}()

			_, err := provider.NewArkProvider(ctx, &provider.ArkConfig{APIKey: "test-key"}, liveInvoker())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("MODEL_ID"))
		})

		It("should fail without a Gemini API key", func() {
			oldKey := os.Getenv("GEMINI_API_KEY")
			os.Unsetenv("GEMINI_API_KEY")
			defer func() {
				if oldKey != "" {
					os.Setenv("GEMINI_API_KEY", oldKey)
				}
			}()

			_, err := provider.NewGeminiProvider(ctx, &provider.GeminiConfig{}, liveInvoker())
			Expect(err).To(HaveOccurred())
		})
	})
})
