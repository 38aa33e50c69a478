package engine

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

// Researcher produces a short briefing on the client before the interview
// starts. Results are cached per client/company pair so restarting an
// interview for the same client costs no model call.
type Researcher struct {
	inv   *Invoker
	cache *lru.Cache[string, string]
}

const researchCacheSize = 128

func NewResearcher(inv *Invoker) *Researcher {
	cache, _ := lru.New[string, string](researchCacheSize)
	return &Researcher{inv: inv, cache: cache}
}

const researcherPersona = "You are a research analyst preparing a consultant " +
	"for a client interview. You summarize what is generally known about a " +
	"company and what to ask about. When you do not know the company, say so " +
	"and describe what a company with that name and profile likely does."

// Research returns a briefing for the client and the backend that produced
// it. Cache hits return an empty backend ID. Failures propagate; callers
// treat research as optional.
func (r *Researcher) Research(ctx context.Context, clientName, companyName string) (string, string, error) {
	key := strings.ToLower(strings.TrimSpace(clientName)) + "|" + strings.ToLower(strings.TrimSpace(companyName))
	if summary, ok := r.cache.Get(key); ok {
		return summary, "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Prepare a short briefing on a prospective client.\n\n")
	fmt.Fprintf(&b, "Contact: %s\n", clientName)
	if companyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", companyName)
	}
	b.WriteString("\nCover: what the company does, its likely industry and size, ")
	b.WriteString("typical technology challenges in that industry, and three topics ")
	b.WriteString("worth raising in a requirements interview.")

	summary, backend, err := r.inv.Invoke(llm.WithCaller(ctx, "research"), researcherPersona,
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: b.String()}},
		InvokeOptions{Temperature: 0.7, MaxTokens: 2000},
	)
	if err != nil {
		return "", "", err
	}
	r.cache.Add(key, summary)
	return summary, backend, nil
}
