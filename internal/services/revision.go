package services

import "strings"

// Legacy heuristic revision. Before AI providers were configurable the
// platform rewrote content from keyword cues in the feedback; the behavior
// is kept as the fallback when no provider is active so revision requests
// still produce a visible change.

// heuristicHints maps feedback keywords (Portuguese and English) to the
// boilerplate appended for them.
var heuristicHints = []struct {
	keywords []string
	addition string
}{
	{
		keywords: []string{"mais detalhes", "more detail", "detalhar", "expand"},
		addition: "Nossa equipe reuniu mais informações sobre os serviços oferecidos para detalhar melhor esta seção.",
	},
	{
		keywords: []string{"contato", "contact", "telefone", "phone"},
		addition: "Entre em contato conosco pelos canais informados para saber mais.",
	},
	{
		keywords: []string{"urgente", "urgent", "agora", "now"},
		addition: "Fale conosco hoje mesmo e garanta condições especiais.",
	},
}

// ApplyHeuristicRevision edits content from feedback cues. Shortening
// requests truncate; recognized keywords append their boilerplate; anything
// else gets a generic revision note so the client sees the request was
// handled.
func ApplyHeuristicRevision(content, feedback string) string {
	fb := strings.ToLower(feedback)

	if containsAny(fb, "mais curto", "shorter", "resumir", "resuma", "shorten") {
		return shorten(content)
	}

	for _, h := range heuristicHints {
		if containsAny(fb, h.keywords...) {
			return strings.TrimRight(content, "\n") + "\n\n" + h.addition
		}
	}

	if strings.TrimSpace(feedback) == "" {
		return content
	}
	return strings.TrimRight(content, "\n") + "\n\n" + "Conteúdo revisado conforme solicitado: " + strings.TrimSpace(feedback)
}

// shorten keeps roughly the first two thirds of the content, cut at a
// paragraph boundary when possible.
func shorten(content string) string {
	limit := len(content) * 2 / 3
	if limit == 0 {
		return content
	}
	if idx := strings.LastIndex(content[:limit], "\n\n"); idx > 0 {
		return content[:idx]
	}
	if idx := strings.LastIndex(content[:limit], ". "); idx > 0 {
		return content[:idx+1]
	}
	return content[:limit]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
