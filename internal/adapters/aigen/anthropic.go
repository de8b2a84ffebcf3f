package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-6"

// generateSystemPrompt instructs the model as an experienced swim coach
// using Norwegian swim notation, answering with JSON only.
const generateSystemPrompt = `Du er en erfaren svømmetrener som lager treningsprogram for svømmeklubber. Du svarer KUN med gyldig JSON uten annen tekst.

## Notasjon (bruk disse forkortelsene)
- vf = veldig lett, v = lett
- cr = crawl, rygg = ryggsvømming, bryst = brystsvømming, fly = butterfly
- m/pb = med pullbuøy, m/padl = med paddler
- p.X = pause X sekunder (f.eks. p.20, p.30)
- hv = holdvendt (pause til klokken viser rund tid)
- neg split = negativ split (første halvdel saktere enn andre)
- prog = progresiv (økt fart gjennom settet)
- s1 = sett 1 (lett)
- 0-start = start fra blokken
- sos = svømme eller sparke
- cr/ry = crawl eller rygg

## Øktstruktur
1. Oppvarming (vf/v, rolig svømming)
2. Teknikk/driller (korte distanser, fokus på teknikk)
3. Hoveddel (hovedfokus basert på intensitet)
4. Avslutning (rolig nedkjøling)

## Svømmearter og tilpasning
- crawl: cr, fri
- rygg: rygg
- bryst: bryst
- butterfly: fly
- medley: blandet cr/rygg/bryst/fly

## Intensitet
- lett: mye teknikk, kortere hoveddel, lavere volum
- moderat: balanse teknikk og kondisjon
- høy: intervalltrening, neg split, testing
- topp: racing, 0-start, maks intensitet

## Svarformat
Returner KUN denne JSON-strukturen, ingen annen tekst:
{"title":"Kort tittel (f.eks. Rygg teknikk + crawl kondisjon)","content":"Hele økten på én linje per set/øvelse. Bruk norsk svømmenotasjon.","totalMeters":"XXX" eller "XXX/YYY" for ulike grupper}`

// adjustSystemPrompt instructs the model to rescale an existing workout to
// a new meter total while keeping its structure.
const adjustSystemPrompt = `Du er en erfaren svømmetrener. Du får en eksisterende svømmeøkt og skal justere den til et nytt antall meter. Behold øktens struktur, fokus og intensitet, men tilpass distansene slik at totalen blir omtrent det ønskede antallet meter. Bruk norsk svømmenotasjon (vf, v, cr, rygg, bryst, fly, p.X, neg split, etc.). Svar KUN med gyldig JSON:
{"title":"Kort tittel","content":"Hele økten på én linje per set/øvelse","totalMeters":"XXX"}`

// jsonObject finds the outermost JSON object in a model reply, tolerating
// prose around it.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// AnthropicGenerator implements Generator with the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicGenerator creates a generator.
// PRE: apiKey is a valid Anthropic API key; model may be empty for the default
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	if model == "" {
		model = defaultModel
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Generate produces a new workout for the given stroke, meters and intensity.
// PRE: input fields are validated by the caller
// POST: Returns a workout with non-empty title and content
func (g *AnthropicGenerator) Generate(ctx context.Context, input GenerateInput) (Workout, error) {
	prompt := fmt.Sprintf("Lag en %s %s-økt på ca %d meter. Bruk norsk svømmenotasjon som beskrevet. Svar KUN med JSON.",
		input.Intensity, input.Stroke, input.TotalMeters)

	w, err := g.complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return Workout{}, err
	}
	if w.Title == "" {
		w.Title = "AI-generert økt"
	}
	if w.TotalMeters == "" {
		w.TotalMeters = fmt.Sprintf("%d", input.TotalMeters)
	}
	slog.Info("workout_generated", "stroke", input.Stroke, "intensity", input.Intensity, "meters", input.TotalMeters)
	return w, nil
}

// Adjust rescales an existing workout to the target meters.
// PRE: input.Content is non-empty, input.TargetMeters > 0
// POST: Returns the adjusted workout, falling back to the original fields
// when the model omits one
func (g *AnthropicGenerator) Adjust(ctx context.Context, input AdjustInput) (Workout, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Justér denne økten til ca %d meter. Opprinnelig tittel: %s. Opprinnelig innhold:\n%s\n",
		input.TargetMeters, input.Title, input.Content)
	if input.TotalMeters != "" {
		fmt.Fprintf(&sb, "Opprinnelig meter: %s. ", input.TotalMeters)
	}
	sb.WriteString("Behold strukturen og fokuset. Svar KUN med JSON.")

	w, err := g.complete(ctx, adjustSystemPrompt, sb.String())
	if err != nil {
		return Workout{}, err
	}
	if w.Title == "" {
		w.Title = input.Title
	}
	if w.Content == "" {
		w.Content = input.Content
	}
	if w.TotalMeters == "" {
		w.TotalMeters = fmt.Sprintf("%d", input.TargetMeters)
	}
	slog.Info("workout_adjusted", "target_meters", input.TargetMeters)
	return w, nil
}

// complete sends one prompt turn and parses the JSON reply.
func (g *AnthropicGenerator) complete(ctx context.Context, system, prompt string) (Workout, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		slog.Error("aigen_request_failed", "error", err.Error())
		return Workout{}, fmt.Errorf("generation request: %w", err)
	}

	text := ""
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return Workout{}, fmt.Errorf("no text content in model reply")
	}

	return parseWorkoutReply(text)
}

// parseWorkoutReply extracts the workout JSON from a model reply.
func parseWorkoutReply(text string) (Workout, error) {
	raw := strings.TrimSpace(text)
	if match := jsonObject.FindString(raw); match != "" {
		raw = match
	}

	var parsed struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		TotalMeters string `json:"totalMeters"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Workout{}, fmt.Errorf("unreadable model reply: %w", err)
	}
	return Workout{
		Title:       strings.TrimSpace(parsed.Title),
		Content:     strings.TrimSpace(parsed.Content),
		TotalMeters: strings.TrimSpace(parsed.TotalMeters),
	}, nil
}
