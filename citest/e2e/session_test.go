package e2e_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

var _ = Describe("Sessions", func() {
	It("creates a session with a generated id", func() {
		resp, err := client.Post(ctx, "/session", map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var info types.SessionInfo
		Expect(resp.JSON(&info)).To(Succeed())
		Expect(info.ID).NotTo(BeEmpty())
		Expect(info.MessageCount).To(BeZero())
	})

	It("hands back the existing session for a known id", func() {
		resp, err := client.Post(ctx, "/session", map[string]any{"id": "case-known"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		resp, err = client.Post(ctx, "/session", map[string]any{"id": "case-known"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var info types.SessionInfo
		Expect(resp.JSON(&info)).To(Succeed())
		Expect(info.ID).To(Equal("case-known"))

		resp, err = client.Get(ctx, "/session/case-known")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("answers 404 for an unknown session", func() {
		resp, err := client.Get(ctx, "/session/no-such-case")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))

		var apiErr apiError
		Expect(resp.JSON(&apiErr)).To(Succeed())
		Expect(apiErr.Error.Code).To(Equal("NOT_FOUND"))
	})

	It("carries a chat exchange through the model", func() {
		resp, err := client.Post(ctx, "/session", map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		var info types.SessionInfo
		Expect(resp.JSON(&info)).To(Succeed())

		resp, err = client.Post(ctx, "/session/"+info.ID+"/message", map[string]any{
			"content": "A customer reports a duplicate charge on their card.",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var reply types.Message
		Expect(resp.JSON(&reply)).To(Succeed())
		Expect(reply.Role).To(Equal(types.RoleAssistant))
		Expect(reply.Content).To(ContainSubstring("likely legitimate"))

		resp, err = client.Get(ctx, "/session/"+info.ID+"/history")
		Expect(err).NotTo(HaveOccurred())
		var history []types.Message
		Expect(resp.JSON(&history)).To(Succeed())
		Expect(history).To(HaveLen(2))
		Expect(history[0].Role).To(Equal(types.RoleUser))
		Expect(history[1].Role).To(Equal(types.RoleAssistant))
	})

	It("keeps history across turns", func() {
		resp, err := client.Post(ctx, "/session", map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		var info types.SessionInfo
		Expect(resp.JSON(&info)).To(Succeed())

		for _, content := range []string{
			"The account shows an outbound wire to a new counterparty.",
			"The holder confirmed they initiated it.",
		} {
			resp, err = client.Post(ctx, "/session/"+info.ID+"/message", map[string]any{"content": content})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		}

		// Both prior turns ride along in the model request.
		last, ok := testServer.MockLLM.LastRequest()
		Expect(ok).To(BeTrue())
		Expect(last.LastUser).To(ContainSubstring("holder confirmed"))
		msgs, ok := last.Body["messages"].([]any)
		Expect(ok).To(BeTrue())
		// system prompt, two prior turns, and the new user turn
		Expect(len(msgs)).To(BeNumerically(">=", 4))

		resp, err = client.Get(ctx, "/session/"+info.ID+"/history")
		Expect(err).NotTo(HaveOccurred())
		var history []types.Message
		Expect(resp.JSON(&history)).To(Succeed())
		Expect(history).To(HaveLen(4))
	})

	It("rejects an empty message", func() {
		resp, err := client.Post(ctx, "/session", map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		var info types.SessionInfo
		Expect(resp.JSON(&info)).To(Succeed())

		resp, err = client.Post(ctx, "/session/"+info.ID+"/message", map[string]any{"content": "   "})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		var apiErr apiError
		Expect(resp.JSON(&apiErr)).To(Succeed())
		Expect(apiErr.Error.Code).To(Equal("INVALID_REQUEST"))
	})
})
