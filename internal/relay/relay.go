// Package relay forwards one translation request to a generative-language
// provider and normalizes the answer. A Relay keeps no state between calls.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/valpere/tlumach/internal"
	"github.com/valpere/tlumach/internal/observability"
	"github.com/valpere/tlumach/internal/provider"
)

const (
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 2048
	DefaultTimeout         = 30 * time.Second
)

// Config is injected at construction. APIKey may be empty; every call then
// fails with KindConfiguration.
type Config struct {
	APIKey          string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

type Relay struct {
	cfg      Config
	provider provider.Provider
	logger   *zap.Logger
	validate *validator.Validate
}

func New(cfg Config, p provider.Provider, logger *zap.Logger) *Relay {
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Relay{
		cfg:      cfg,
		provider: p,
		logger:   logger,
		validate: v,
	}
}

// ProviderName names the backing provider.
func (r *Relay) ProviderName() string {
	return r.provider.Name()
}

// Configured reports whether calls can reach the provider at all.
func (r *Relay) Configured() bool {
	return r.cfg.APIKey != "" || !r.provider.RequiresKey()
}

// Translate runs one request through validate, configure, call, parse.
func (r *Relay) Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error) {
	log := observability.Ctx(ctx, r.logger)

	if err := r.validateRequest(req); err != nil {
		log.Warn("translation request rejected", zap.Error(err), zap.String("error_kind", string(KindValidation)))
		return nil, err
	}

	log.Info("translation request",
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("text_length", utf8.RuneCountInString(req.Text)),
		zap.String("provider", r.provider.Name()),
	)

	if !r.Configured() {
		err := &Error{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("%s API key is not configured", r.provider.Name()),
		}
		log.Error("relay is misconfigured", zap.String("fault", "configuration"), zap.Error(err))
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := r.provider.Generate(callCtx, BuildPrompt(req), provider.Params{
		APIKey:          r.cfg.APIKey,
		Temperature:     r.cfg.Temperature,
		MaxOutputTokens: r.cfg.MaxOutputTokens,
	})
	latency := time.Since(start)
	if err != nil {
		rerr := r.classify(err)
		log.Error("translation failed",
			zap.String("fault", "upstream"),
			zap.String("error_kind", string(rerr.Kind)),
			zap.Int("upstream_status", rerr.UpstreamStatus),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return nil, rerr
	}

	translated := strings.TrimSpace(text)
	if translated == "" {
		rerr := r.emptyResult(nil)
		log.Error("translation failed", zap.String("fault", "upstream"), zap.String("error_kind", string(rerr.Kind)))
		return nil, rerr
	}

	log.Info("translation complete",
		zap.Int("result_length", utf8.RuneCountInString(translated)),
		zap.Duration("latency", latency),
	)
	return &internal.TranslationResult{TranslatedText: translated}, nil
}

// BuildPrompt is the whole translation algorithm: one instruction that asks
// for the bare translation.
func BuildPrompt(req internal.TranslationRequest) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Only provide the translation, no explanations or additional text:\n\n%s",
		strings.TrimSpace(req.SourceLanguage), strings.TrimSpace(req.TargetLanguage), req.Text,
	)
}

func (r *Relay) validateRequest(req internal.TranslationRequest) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindValidation, Message: err.Error(), Cause: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &Error{
		Kind:    KindValidation,
		Message: "Missing required parameters: " + strings.Join(fields, ", "),
		Cause:   err,
	}
}

func (r *Relay) classify(err error) *Error {
	name := r.provider.Name()

	if errors.Is(err, provider.ErrEmptyResponse) {
		return r.emptyResult(err)
	}

	var se *provider.StatusError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("%s API error: %d", name, se.Status)
		if se.Message != "" {
			msg += ": " + se.Message
		}
		return &Error{Kind: KindProvider, Message: msg, UpstreamStatus: se.Status, Cause: err}
	}

	if isTimeout(err) {
		return &Error{Kind: KindProvider, Message: fmt.Sprintf("%s API request timed out", name), Timeout: true, Cause: err}
	}

	return &Error{Kind: KindProvider, Message: fmt.Sprintf("%s API request failed", name), Cause: err}
}

func (r *Relay) emptyResult(cause error) *Error {
	return &Error{
		Kind:    KindEmptyResult,
		Message: fmt.Sprintf("No translation returned from %s API", r.provider.Name()),
		Cause:   cause,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
