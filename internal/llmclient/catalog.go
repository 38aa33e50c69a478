package llmclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a concrete client for a registered backend.
type Factory func(ctx context.Context) (Client, error)

// Registration describes one candidate backend in the catalog.
type Registration struct {
	// ID is the backend identifier callers use to address this entry,
	// usually the bare model name.
	ID       string
	Provider string
	Model    string
	Factory  Factory
}

// Catalog maps backend identifiers to lazily-constructed clients. Clients are
// built on first use and cached for the lifetime of the catalog.
type Catalog struct {
	mu      sync.Mutex
	entries map[string]Registration
	built   map[string]Client
	wrap    func(Client) Client
}

func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]Registration),
		built:   make(map[string]Client),
	}
}

// SetWrapper installs a decorator applied to every client when it is first
// constructed. Middleware chains (logging, rate limiting) hook in here.
func (c *Catalog) SetWrapper(wrap func(Client) Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wrap = wrap
}

func (c *Catalog) Register(reg Registration) error {
	id := strings.TrimSpace(reg.ID)
	if id == "" {
		return fmt.Errorf("llmclient: registration id is empty")
	}
	if reg.Factory == nil {
		return fmt.Errorf("llmclient: registration %s has no factory", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = reg
	return nil
}

// Client resolves id to a client, constructing it on first use. An unknown
// id is reported as KindNotFound so the fallback chain can advance past it.
func (c *Catalog) Client(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if cli, ok := c.built[id]; ok {
		return cli, nil
	}
	reg, ok := c.entries[id]
	if !ok {
		return nil, &BackendError{
			Backend: id,
			Kind:    KindNotFound,
			Err:     fmt.Errorf("llmclient: backend %q is not registered", id),
		}
	}
	cli, err := reg.Factory(ctx)
	if err != nil {
		return nil, Classify(id, err)
	}
	if c.wrap != nil {
		cli = c.wrap(cli)
	}
	c.built[id] = cli
	return cli, nil
}

// IDs returns the registered backend identifiers in stable order.
func (c *Catalog) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Close closes every constructed client.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for id, cli := range c.built {
		if err := cli.Close(); err != nil && first == nil {
			first = err
		}
		delete(c.built, id)
	}
	return first
}

// RegisterGroqModels registers the Groq chat models used as the default
// priority chain, keyed by bare model name.
func RegisterGroqModels(c *Catalog, apiKey string, models ...string) error {
	for _, m := range models {
		model := m
		err := c.Register(Registration{
			ID:       model,
			Provider: "groq",
			Model:    model,
			Factory: func(ctx context.Context) (Client, error) {
				_ = ctx
				return NewGroqClient(apiKey, model)
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RegisterGeminiModel registers a single Gemini model.
func RegisterGeminiModel(c *Catalog, apiKey, model string) error {
	return c.Register(Registration{
		ID:       model,
		Provider: "gemini",
		Model:    model,
		Factory: func(ctx context.Context) (Client, error) {
			return NewGeminiClient(ctx, apiKey, model)
		},
	})
}

// RegisterOpenAIModel registers a single OpenAI-compatible model. baseURL may
// be empty for api.openai.com.
func RegisterOpenAIModel(c *Catalog, apiKey, baseURL, model string) error {
	return c.Register(Registration{
		ID:       model,
		Provider: "openai",
		Model:    model,
		Factory: func(ctx context.Context) (Client, error) {
			_ = ctx
			return NewOpenAIClient(apiKey, baseURL, model)
		},
	})
}
