package translation

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zhouzirui/lingua-channel/internal/analysis/langmatch"
	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/model/chat"
	"github.com/zhouzirui/lingua-channel/internal/telemetry"
)

// PivotLanguage is the normalization target used before moderation.
const PivotLanguage = "en"

// Dispatcher resolves a requested language against the supported set and
// calls the translator.
type Dispatcher struct {
	translator Translator
	languages  []string
	logger     *logging.Logger
}

// NewDispatcher returns a dispatcher limited to languages.
func NewDispatcher(translator Translator, languages []string, logger *logging.Logger) *Dispatcher {
	if translator == nil {
		translator = Unavailable{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{
		translator: translator,
		languages:  append([]string(nil), languages...),
		logger:     logger,
	}
}

// Supported reports whether code is an exact member of the language set.
func (d *Dispatcher) Supported(code string) bool {
	for _, lang := range d.languages {
		if lang == code {
			return true
		}
	}
	return false
}

// Resolve translates text into code and wraps the result in the success
// template. It fails with ErrUnsupportedLanguage, ErrEmptyText or
// ErrProviderUnavailable.
func (d *Dispatcher) Resolve(ctx context.Context, code, text string) (string, error) {
	if !d.Supported(code) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	translated, err := d.call(ctx, text, code)
	if err != nil {
		return "", err
	}
	return chat.TranslationText(translated), nil
}

// ToPivot translates text into PivotLanguage without templating.
func (d *Dispatcher) ToPivot(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return d.call(ctx, text, PivotLanguage)
}

// Suggest renders the notice for an unsupported code, naming the nearest
// supported code when one is close enough.
func (d *Dispatcher) Suggest(code string) string {
	return langmatch.Suggest(code, d.languages)
}

func (d *Dispatcher) call(ctx context.Context, text, target string) (result string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "translation.translate", attribute.String("target", target))
	defer func() { telemetry.EndSpan(span, err) }()

	telemetry.TimeFunc(telemetry.TranslationDuration, func() {
		result, err = d.translator.Translate(ctx, text, SourceAuto, target)
	})
	if err != nil {
		d.logger.Warnf("[translation] provider call failed target=%s corr=%s: %v", target, telemetry.GetCorrelation(ctx), err)
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return result, nil
}
