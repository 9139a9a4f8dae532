package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"btc-signal-bot/internal/analysis"
	"btc-signal-bot/internal/app"
	"btc-signal-bot/internal/config"
	"btc-signal-bot/internal/domain"
	"btc-signal-bot/internal/logging"
	"btc-signal-bot/internal/report"
	"btc-signal-bot/pkg/tracing"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type marketData interface {
	FearGreed(ctx context.Context) (*domain.FearGreed, error)
	BTCPrice(ctx context.Context) (*domain.PriceQuote, error)
}

type assistant interface {
	Ask(ctx context.Context, chatID int64, text string) (string, error)
}

// runtime is what the subcommands need from the wired application.
type runtime struct {
	variant   domain.Variant
	market    marketData
	analyzers func(domain.Variant) (analysis.Analyzer, error)
	assistant assistant
	shutdown  func()
}

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	newRuntimeFunc = newRuntime
)

func main() {
	_ = loadEnvFunc()
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal("btcsignal failed", "err", err)
	}
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg := loadConfigFunc()
	logging.SetupWriter(os.Stderr, cfg.LogLevel, "cli")

	tp, tracer, err := tracing.InitTracer(ctx, tracing.Options{
		Enabled:   cfg.TracingEnabled,
		Endpoint:  cfg.OTLPEndpoint,
		Component: "cli",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	components := app.Build(tracer, cfg, nil, nil)
	rt := &runtime{
		variant:   cfg.Variant,
		market:    components.Market,
		analyzers: components.Analyzer,
		shutdown:  func() { _ = tp.Shutdown(context.Background()) },
	}
	if components.Agent != nil {
		rt.assistant = components.Agent
	}
	return rt, nil
}

func newRootCmd() *cobra.Command {
	var (
		timeout time.Duration
		asJSON  bool
	)

	root := &cobra.Command{
		Use:           "btcsignal",
		Short:         "Query Bitcoin signals from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "overall request timeout")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON instead of the chat message")

	withRuntime := func(run func(ctx context.Context, out io.Writer, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			rt, err := newRuntimeFunc(ctx)
			if err != nil {
				return err
			}
			if rt.shutdown != nil {
				defer rt.shutdown()
			}
			return run(ctx, cmd.OutOrStdout(), rt, args)
		}
	}

	var variantFlag string
	analyze := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analyzer once and print the signal",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(ctx context.Context, out io.Writer, rt *runtime, _ []string) error {
			variant := rt.variant
			if variantFlag != "" {
				v, err := domain.ParseVariant(variantFlag)
				if err != nil {
					return err
				}
				variant = v
			}
			analyzer, err := rt.analyzers(variant)
			if err != nil {
				return fmt.Errorf("analyzer for %s: %w", variant, err)
			}
			result, err := analyzer.Analyze(ctx)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			if asJSON {
				return writeJSON(out, result)
			}
			_, err = fmt.Fprintln(out, report.Format(result))
			return err
		}),
	}
	analyze.Flags().StringVar(&variantFlag, "variant", "", "simple, hybrid or agent (defaults to BOT_VARIANT)")

	fearGreed := &cobra.Command{
		Use:   "feargreed",
		Short: "Print the current Fear & Greed Index",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(ctx context.Context, out io.Writer, rt *runtime, _ []string) error {
			fg, err := rt.market.FearGreed(ctx)
			if err != nil {
				return fmt.Errorf("fetch fear & greed: %w", err)
			}
			if asJSON {
				return writeJSON(out, fg)
			}
			_, err = fmt.Fprintf(out, "Fear & Greed: %d (%s)\n", fg.Value, fg.Classification)
			return err
		}),
	}

	price := &cobra.Command{
		Use:   "price",
		Short: "Print the BTC/USD spot price",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(ctx context.Context, out io.Writer, rt *runtime, _ []string) error {
			quote, err := rt.market.BTCPrice(ctx)
			if err != nil {
				return fmt.Errorf("fetch price: %w", err)
			}
			if asJSON {
				return writeJSON(out, quote)
			}
			_, err = fmt.Fprintf(out, "BTC: $%s (%s)\n", report.Money(quote.PriceUSD, 2), quote.Source)
			return err
		}),
	}

	ask := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the Foundry agent a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRuntime(func(ctx context.Context, out io.Writer, rt *runtime, args []string) error {
			if rt.assistant == nil {
				return errors.New("agent is not configured (set FOUNDRY_ENDPOINT and FOUNDRY_API_KEY)")
			}
			reply, err := rt.assistant.Ask(ctx, 0, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("ask agent: %w", err)
			}
			_, err = fmt.Fprintln(out, reply)
			return err
		}),
	}

	root.AddCommand(analyze, fearGreed, price, ask)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
