package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/protoquiz/internal/llm"
	"github.com/abhisek/protoquiz/internal/store"
	"github.com/abhisek/protoquiz/internal/tutor"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect tutor requests and their token usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withRepo(func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No tutor requests recorded.")
				return nil
			}

			fmt.Printf("%5s  %-16s  %-10s  %-28s  %7s  %7s  %6s\n",
				"ID", "Time", "Purpose", "Model", "In", "Out", "Ms")
			rule(90)
			for _, e := range events {
				line := fmt.Sprintf("%5d  %-16s  %-10s  %-28s  %7d  %7d  %6d",
					e.ID, e.Timestamp.Local().Format("01-02 15:04:05"), truncate(e.Purpose, 10),
					truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs)
				if !e.Success {
					line += "  failed"
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one request with its prompt and raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}

		return withRepo(func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("#%d  %s  %s/%s  purpose=%s\n", e.ID,
				e.Timestamp.Local().Format(time.RFC3339), e.Provider, e.Model, e.Purpose)
			fmt.Printf("tokens %d in, %d out  latency %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
			if !e.Success {
				fmt.Printf("error: %s\n", e.ErrorMessage)
			}
			section("request", e.RequestBody)
			section("response", e.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(repo store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No tutor usage recorded yet.")
				return nil
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}

			printPurposeUsage(byPurpose)
			fmt.Println()
			printModelCost(byModel)
			return nil
		})
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Send one explanation request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(func(repo store.EventRepo) error {
			tut := buildTutor(cmd.Context(), repo, consoleLogger())
			if !tut.Enabled() {
				return fmt.Errorf("no LLM provider configured; set %sPROVIDER or a vendor API key", llm.EnvPrefix)
			}

			start := time.Now()
			exp, err := tut.Explain(cmd.Context(), tutor.Request{
				Topic:        "Modbus TCP",
				Question:     "Which TCP port does a Modbus TCP server listen on by default?",
				Options:      []string{"80", "502", "1883", "8080"},
				ChosenIndex:  0,
				CorrectIndex: 1,
			})
			if err != nil {
				return err
			}
			fmt.Printf("OK in %s\n\n%s\n", time.Since(start).Round(time.Millisecond), exp.Summary)
			return nil
		})
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only events with this purpose (e.g. explain)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd, llmCheckCmd)
}

// withRepo opens the store for the duration of fn.
func withRepo(fn func(store.EventRepo) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.EventRepo())
}

func printPurposeUsage(usage []store.LLMPurposeUsage) {
	fmt.Printf("%-14s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
	rule(56)
	var calls, in, out int
	for _, u := range usage {
		fmt.Printf("%-14s  %6d  %10d  %10d  %8d\n",
			truncate(u.Purpose, 14), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(56)
	fmt.Printf("%-14s  %6d  %10d  %10d\n", "total", calls, in, out)
}

func printModelCost(usage []store.LLMModelUsage) {
	fmt.Printf("%-30s  %6s  %10s\n", "Model", "Calls", "Est. cost")
	rule(50)
	var total float64
	var unpriced []string
	for _, u := range usage {
		price := llm.LookupCost(u.Model)
		if price == nil {
			unpriced = append(unpriced, u.Model)
			fmt.Printf("%-30s  %6d  %10s\n", truncate(u.Model, 30), u.Calls, "?")
			continue
		}
		c := price.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Printf("%-30s  %6d  %10s\n", truncate(u.Model, 30), u.Calls, formatCost(c))
	}
	rule(50)
	fmt.Printf("%-30s  %6s  %10s\n", "total", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nNo price known for %s; the total leaves them out.\n", strings.Join(unpriced, ", "))
	}
}

func section(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", max(0, 56-len(title))))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func rule(n int) { fmt.Println(strings.Repeat("─", n)) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
