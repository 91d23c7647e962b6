package scan

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const extractPrompt = `Você é um assistente que digitaliza formulários de inventário de publicações (folhas "Registro de Publicações"). Analise as páginas fornecidas e extraia todas as linhas de contagem, agrupadas por mês. A data de referência é %s; use-a para resolver meses sem ano explícito. Sua resposta deve ser apenas JSON, sem nenhum texto ou explicação adicional, nesta estrutura:
[{"month": "aaaa-mm", "rows": [{"code": "", "item": "", "previous": 0, "received": 0, "current": 0}]}]
Campos vazios ou ilegíveis viram 0. Se nenhum mês for reconhecível, responda [].`

// Gemini extracts sheet data with a Google generative model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Extract(ctx context.Context, pages []Page, referenceDate string) ([]MonthGroup, error) {
	parts := make([]genai.Part, 0, len(pages)+1)
	parts = append(parts, genai.Text(fmt.Sprintf(extractPrompt, referenceDate)))
	for _, p := range pages {
		parts = append(parts, genai.Blob{MIMEType: p.MIMEType, Data: p.Data})
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini extraction: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no result")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("gemini response is not text")
	}

	return ParseResult(string(text))
}
