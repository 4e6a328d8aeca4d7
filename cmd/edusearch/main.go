package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pavelanni/edusearch/internal/handler"
	appI18n "github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/llm"
	"github.com/pavelanni/edusearch/internal/llm/prompts"
	"github.com/pavelanni/edusearch/internal/model"
	"github.com/pavelanni/edusearch/internal/notes"
	"github.com/pavelanni/edusearch/internal/quizgen"
	"github.com/pavelanni/edusearch/internal/state"
)

func main() {
	// A local .env supplies provider API keys during development.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edusearch",
		Short: "AI-powered study assistant: notes and quizzes from LLMs",
	}

	serve := serveCmd()
	root.AddCommand(serve, generateCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `edusearch --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the study assistant HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", "en", "UI language (en, ru)")
	f.Float64("gen-rate", 6, "Generation requests allowed per minute, per user")
	f.Int("gen-burst", 3, "Generation request burst per user")
	f.Duration("session-ttl", state.DefaultTTL, "Idle time before a user session is dropped")
	f.Duration("cleanup-interval", 10*time.Minute, "How often expired sessions are swept")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a one-shot study pack (notes + quiz) as JSON",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Study topic (required)")
	f.StringP("subject", "s", "", "Subject area (defaults to General)")
	f.StringP("difficulty", "d", string(model.DefaultDifficulty), "Quiz difficulty (easy, medium, hard)")
	f.IntP("count", "n", model.DefaultQuestions, "Number of quiz questions (3-10)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLLMFlags(cmd)
	addLogFlags(cmd)

	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func addLLMFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("provider", llm.ProviderOpenAI, "LLM provider (openai, anthropic, gemini, mock)")
	f.String("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	f.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	f.String("openai-base-url", "", "OpenAI-compatible base URL (Ollama, vLLM, LM Studio)")
	f.String("anthropic-key", "", "Anthropic API key (or set ANTHROPIC_API_KEY)")
	f.String("anthropic-model", "claude-sonnet", "Anthropic model name")
	f.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	f.String("gemini-model", "gemini-flash", "Gemini model name")
	f.Duration("gen-timeout", 60*time.Second, "Timeout for a single LLM request")
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EDUSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("edusearch")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/edusearch")
	v.AddConfigPath("/etc/edusearch")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// llmConfig assembles the provider configuration. API keys fall back to
// the conventional environment variables so an existing .env keeps working.
func llmConfig(v *viper.Viper) (llm.Config, error) {
	cfg := llm.Config{
		Provider: strings.ToLower(v.GetString("provider")),
		Timeout:  v.GetDuration("gen-timeout"),
	}
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = apiKey(v, "openai-key", "OPENAI_API_KEY")
		cfg.Model = v.GetString("openai-model")
		cfg.BaseURL = v.GetString("openai-base-url")
	case llm.ProviderAnthropic:
		cfg.APIKey = apiKey(v, "anthropic-key", "ANTHROPIC_API_KEY")
		cfg.Model = v.GetString("anthropic-model")
	case llm.ProviderGemini:
		cfg.APIKey = apiKey(v, "gemini-key", "GEMINI_API_KEY")
		cfg.Model = v.GetString("gemini-model")
	case llm.ProviderMock:
	default:
		return llm.Config{}, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return cfg, nil
}

func apiKey(v *viper.Viper, flag, envVar string) string {
	if key := v.GetString(flag); key != "" {
		return key
	}
	return os.Getenv(envVar)
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	if err := prompts.LoadEmbedded(); err != nil {
		return fmt.Errorf("load prompt templates: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmCfg, err := llmConfig(v)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(ctx, llmCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	users := state.NewManager(
		v.GetDuration("session-ttl"),
		rate.Limit(v.GetFloat64("gen-rate")/60),
		v.GetInt("gen-burst"),
	)
	users.StartCleanup(ctx, v.GetDuration("cleanup-interval"))

	h := handler.New(
		notes.NewService(provider),
		quizgen.New(provider),
		users,
		slog.Default(),
		handler.Config{SecureCookies: v.GetBool("secure-cookies")},
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Generation requests block on the LLM and retry with backoff,
		// so responses can take minutes.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slog.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("starting server",
		"addr", addr,
		"provider", llmCfg.Provider,
		"model", provider.ModelID(),
		"lang", lang,
		"gen_rate_per_min", v.GetFloat64("gen-rate"),
		"gen_burst", v.GetInt("gen-burst"),
		"session_ttl", v.GetDuration("session-ttl"),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// studyPack is the generate command's output document.
type studyPack struct {
	Topic       string            `json:"topic"`
	Subject     string            `json:"subject"`
	Difficulty  model.Difficulty  `json:"difficulty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Notes       *notes.StudyNotes `json:"notes"`
	Questions   []model.Question  `json:"questions"`
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := prompts.LoadEmbedded(); err != nil {
		return fmt.Errorf("load prompt templates: %w", err)
	}

	difficulty, err := model.ParseDifficulty(v.GetString("difficulty"))
	if err != nil {
		return err
	}
	params, err := quizgen.Params{
		Topic:      v.GetString("topic"),
		Subject:    v.GetString("subject"),
		Difficulty: difficulty,
		Count:      v.GetInt("count"),
	}.Normalize()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llmCfg, err := llmConfig(v)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(ctx, llmCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	pack := studyPack{
		Topic:       params.Topic,
		Subject:     model.SubjectOrDefault(params.Subject),
		Difficulty:  params.Difficulty,
		GeneratedAt: time.Now(),
	}

	// Notes and quiz are independent; generate them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	notesSvc := notes.NewService(provider)
	gen := quizgen.New(provider)
	g.Go(func() error {
		n, err := notesSvc.Generate(gctx, params.Topic, params.Subject)
		if err != nil {
			return err
		}
		pack.Notes = n
		return nil
	})
	g.Go(func() error {
		questions, err := gen.Generate(gctx, params)
		if err != nil {
			return err
		}
		pack.Questions = questions
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
