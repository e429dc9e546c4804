package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/tokodemo/storefront/internal/repositories"
)

// maxPromptProducts caps how many distinct products the Gemini system prompt
// carries.
const maxPromptProducts = 12

// Assistant combines the local rules with an optional Gemini fallback: when
// a rule matches, its answer is returned directly plus attached as context
// for Gemini; when Gemini is disabled, the local answer (or hint) stands
// alone.
type Assistant struct {
	responder *Responder
	gemini    *GeminiClient
	catalog   repositories.CatalogRepository
	stores    repositories.StoreRepository
}

func NewAssistant(responder *Responder, gemini *GeminiClient, catalog repositories.CatalogRepository, stores repositories.StoreRepository) *Assistant {
	return &Assistant{responder: responder, gemini: gemini, catalog: catalog, stores: stores}
}

// Reply answers a chat question. The local rules run first; their output is
// then handed to Gemini (when configured) so the model can phrase a friendlier
// reply without inventing catalog facts.
func (a *Assistant) Reply(ctx context.Context, question string) (string, error) {
	localAnswer, matched, err := a.responder.Answer(ctx, question)
	if err != nil {
		return "", err
	}

	if !a.gemini.Enabled() {
		return localAnswer, nil
	}

	withLocation := IncludesLocationIntent(question)
	system, err := a.buildSystemPrompt(ctx, localAnswer, matched, withLocation)
	if err != nil {
		return "", err
	}

	reply, err := a.gemini.Generate(ctx, system, question)
	if err != nil {
		// Gemini being down should not break chat.
		return localAnswer, nil
	}
	return reply, nil
}

func (a *Assistant) buildSystemPrompt(ctx context.Context, localAnswer string, matched, withLocation bool) (string, error) {
	var b strings.Builder
	b.WriteString("You are a friendly shop assistant for an online storefront. ")
	b.WriteString("Answer briefly in plain text. Only use the product and store data provided below; ")
	b.WriteString("never invent prices, stock levels, or locations.\n\n")

	summary, err := a.productSummary(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString("Product catalog sample:\n")
	b.WriteString(summary)

	if withLocation {
		stores, err := a.stores.ListAll(ctx)
		if err != nil {
			return "", fmt.Errorf("listing stores for prompt: %w", err)
		}
		b.WriteString("\nStore locations:\n")
		for _, s := range stores {
			line := fmt.Sprintf("- %s: %s (Tel: %s)", s.Name, s.Address, s.Phone)
			if u := s.ResolveMapsURL(); u != "" {
				line += " Map: " + u
			}
			b.WriteString(line + "\n")
		}
	}

	if matched {
		b.WriteString("\nA local lookup already produced this answer, use it as your source of truth:\n")
		b.WriteString(localAnswer)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (a *Assistant) productSummary(ctx context.Context) (string, error) {
	variants, err := a.catalog.ListVariants(ctx)
	if err != nil {
		return "", fmt.Errorf("listing catalog for prompt: %w", err)
	}

	seen := make(map[int64]bool)
	var lines []string
	for _, v := range variants {
		if seen[v.ProductID] {
			continue
		}
		seen[v.ProductID] = true
		lines = append(lines, fmt.Sprintf("- %s (%s), e.g. %s %s (stock: %d)",
			v.Name, v.Category, v.VariantName, FormatPrice(v.Price), v.Stock))
		if len(lines) >= maxPromptProducts {
			break
		}
	}
	if len(lines) == 0 {
		return "(catalog is empty)\n", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}
