package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexkalak/go_loopring_explorer/common/models"
	pooltokenservice "github.com/alexkalak/go_loopring_explorer/services/pooltokenservice/src/pooltokenservice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:          "pooltokenservice",
		Short:        "Loopring AMM pool token resolver",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")

	warmupCmd := &cobra.Command{
		Use:   "warmup",
		Short: "Resolve the pool tokens of the subgraph pairs",
		RunE:  runWarmup,
	}

	warmupCmd.Flags().Int("page-size", 100, "pairs per subgraph page")
	warmupCmd.Flags().Int("parallel", 8, "concurrent pair resolutions")
	warmupCmd.Flags().Int("max-pairs", 0, "stop after that many pairs, 0 means all")

	root.AddCommand(warmupCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the pool token of a pool, swap, token or pair",
		RunE:  runResolve,
	}

	resolveCmd.Flags().String("pool", "", "pool id")
	resolveCmd.Flags().String("swap", "", "swap id")
	resolveCmd.Flags().String("token", "", "token id")
	resolveCmd.Flags().String("token0", "", "first pair token id")
	resolveCmd.Flags().String("token1", "", "second pair token id")
	resolveCmd.MarkFlagsRequiredTogether("token0", "token1")
	resolveCmd.MarkFlagsMutuallyExclusive("pool", "swap", "token", "token0")
	resolveCmd.MarkFlagsOneRequired("pool", "swap", "token", "token0")

	root.AddCommand(resolveCmd)

	exportedCmd := &cobra.Command{
		Use:   "exported",
		Short: "Print the pool tokens already exported to postgres and redis",
		RunE:  runExported,
	}

	root.AddCommand(exportedCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runWarmup(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pageSize, _ := cmd.Flags().GetInt("page-size")
	parallel, _ := cmd.Flags().GetInt("parallel")
	maxPairs, _ := cmd.Flags().GetInt("max-pairs")

	a, err := newApp(ctx, cmd, pooltokenservice.PoolTokenServiceConfig{
		PageSize: pageSize,
		Parallel: parallel,
		MaxPairs: maxPairs,
	})
	if err != nil {
		return err
	}
	defer a.close()

	count, err := a.service.Warmup(ctx)
	if err != nil {
		a.logger.Error("warm up failed", zap.Int("pool_tokens", count), zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	for _, poolToken := range a.service.PoolTokens() {
		fmt.Fprintf(out, "%s\t%s\t%s\n", poolToken.Pool.ID, poolToken.Token.ID, poolToken.Token.Symbol)
	}
	fmt.Fprintf(out, "%d pool tokens resolved\n", count)
	return nil
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := seedFromFlags(cmd)

	a, err := newApp(ctx, cmd, pooltokenservice.PoolTokenServiceConfig{})
	if err != nil {
		return err
	}
	defer a.close()

	poolToken, err := a.service.Resolve(ctx, seed)
	if err != nil {
		return err
	}
	if poolToken == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "not found")
		return nil
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(poolToken)
}

func runExported(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, pooltokenservice.PoolTokenServiceConfig{})
	if err != nil {
		return err
	}
	defer a.close()

	exported, err := pooltokenservice.LoadExported(ctx, a.dbRepo, a.cacheRepo)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

func seedFromFlags(cmd *cobra.Command) models.PoolSeed {
	flags := cmd.Flags()
	if id, _ := flags.GetString("pool"); id != "" {
		return &models.Pool{ID: id}
	}
	if id, _ := flags.GetString("swap"); id != "" {
		return &models.Swap{ID: id}
	}
	if id, _ := flags.GetString("token"); id != "" {
		return &models.Token{ID: id}
	}

	token0, _ := flags.GetString("token0")
	token1, _ := flags.GetString("token1")
	return &models.Pair{
		Token0: &models.Token{ID: token0},
		Token1: &models.Token{ID: token1},
	}
}
