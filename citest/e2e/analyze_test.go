package e2e_test

import (
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Analysis", func() {
	It("returns a verdict for inline evidence", func() {
		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":  "Is this account takeover?",
			"context": "Three failed logins, then a password reset from a new device.",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var result struct {
			Content string `json:"content"`
			Model   string `json:"model"`
		}
		Expect(resp.JSON(&result)).To(Succeed())
		Expect(result.Content).To(ContainSubstring("likely fraud"))
		Expect(result.Model).To(Equal("fraud-mock-1"))
	})

	It("pulls account records into the case context", func() {
		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":    "Assess the outbound wire.",
			"accountID": "acct-1001",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		// The records evidence reached the model alongside the question.
		last, ok := testServer.MockLLM.LastRequest()
		Expect(ok).To(BeTrue())
		Expect(last.LastUser).To(ContainSubstring("Assess the outbound wire."))
		Expect(last.LastUser).To(ContainSubstring("acct-1001"))
		Expect(last.LastUser).To(ContainSubstring("Meridian Holdings"))

		Expect(testServer.MockBank.Requests()).To(ContainElements(
			"/accounts/acct-1001",
			"/accounts/acct-1001/transactions",
		))
	})

	It("answers 502 when the account is not on record", func() {
		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":    "Assess the outbound wire.",
			"accountID": "acct-9999",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))

		var apiErr apiError
		Expect(resp.JSON(&apiErr)).To(Succeed())
		Expect(apiErr.Error.Code).To(Equal("PROVIDER_ERROR"))
	})

	It("frames the call with the selected profile", func() {
		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":  "Verdict?",
			"context": "Outbound wire of $9,800 to a counterparty first seen today.",
			"profile": "wire-review",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		last, ok := testServer.MockLLM.LastRequest()
		Expect(ok).To(BeTrue())
		Expect(last.System).To(ContainSubstring("outbound wire alerts"))
	})

	It("rejects an unknown profile", func() {
		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":  "Verdict?",
			"context": "evidence",
			"profile": "no-such-profile",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("surfaces an upstream failure as bad gateway", func() {
		testServer.MockLLM.SetFailure(http.StatusInternalServerError)
		defer testServer.MockLLM.ClearFailure()

		resp, err := client.Post(ctx, "/analyze", map[string]any{
			"prompt":  "Verdict?",
			"context": "evidence",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))

		var apiErr apiError
		Expect(resp.JSON(&apiErr)).To(Succeed())
		Expect(apiErr.Error.Code).To(Equal("PROVIDER_ERROR"))
	})
})

var _ = Describe("Profiles", func() {
	It("lists the loaded profiles", func() {
		resp, err := client.Get(ctx, "/profile")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var profiles []struct {
			Name string `json:"name"`
		}
		Expect(resp.JSON(&profiles)).To(Succeed())

		names := make([]string, 0, len(profiles))
		for _, p := range profiles {
			names = append(names, p.Name)
		}
		Expect(names).To(ContainElements("triage", "wire-review"))
	})

	It("picks up new profile files without a restart", func() {
		const newProfile = `name: crypto-offramp
description: Crypto off-ramp review
systemPrompt: You review transfers to cryptocurrency exchanges.
`
		path := filepath.Join(testServer.ProfilesDir, "crypto-offramp.yaml")
		Expect(os.WriteFile(path, []byte(newProfile), 0644)).To(Succeed())

		Eventually(func() string {
			resp, err := client.Get(ctx, "/profile")
			if err != nil {
				return ""
			}
			return resp.String()
		}, "5s", "100ms").Should(ContainSubstring("crypto-offramp"))
	})
})

var _ = Describe("Providers", func() {
	It("lists the provider catalog", func() {
		resp, err := client.Get(ctx, "/provider")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var providers []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Models []struct {
				ID string `json:"id"`
			} `json:"models"`
		}
		Expect(resp.JSON(&providers)).To(Succeed())
		Expect(providers).To(HaveLen(1))
		Expect(providers[0].ID).To(Equal("openai"))
		Expect(providers[0].Models).NotTo(BeEmpty())
	})

	It("validates connectivity through the mock backend", func() {
		resp, err := client.Post(ctx, "/provider/openai/validate", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var result struct {
			Provider string `json:"provider"`
			OK       bool   `json:"ok"`
		}
		Expect(resp.JSON(&result)).To(Succeed())
		Expect(result.Provider).To(Equal("openai"))
		Expect(result.OK).To(BeTrue())
	})

	It("answers 404 for an unknown provider", func() {
		resp, err := client.Post(ctx, "/provider/no-such/validate", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})

var _ = Describe("Health", func() {
	It("reports status, providers and breaker states", func() {
		resp, err := client.Get(ctx, "/health")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var health struct {
			Status    string            `json:"status"`
			Sessions  int               `json:"sessions"`
			Providers []string          `json:"providers"`
			Breakers  map[string]string `json:"breakers"`
		}
		Expect(resp.JSON(&health)).To(Succeed())
		Expect(health.Status).To(Equal("ok"))
		Expect(health.Providers).To(ContainElement("openai"))
	})
})
