// =============================================================================
// kingmem 主入口
// =============================================================================
// 记忆子系统命令行工具，用于排查与巡检
//
// 使用方法:
//
//	kingmem resolve --user alice --query "..."   # 执行一次记忆解析
//	kingmem seeds                                # 列出集体记忆种子
//	kingmem seeds --agent code_writer            # 列出某智能体的血统种子
//	kingmem health                               # 检查后端连接
//	kingmem version                              # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yaazhan/kingmem"
	"github.com/yaazhan/kingmem/config"
	"github.com/yaazhan/kingmem/memory"
	"github.com/yaazhan/kingmem/types"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "resolve":
		err = runResolve(os.Args[2:])
	case "seeds":
		err = runSeeds(os.Args[2:])
	case "health":
		err = runHealth(os.Args[2:])
	case "version":
		fmt.Printf("kingmem %s\n", kingmem.Version)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: kingmem <resolve|seeds|health|version> [flags]")
}

// buildSystem 按配置文件装配记忆子系统
func buildSystem(configPath string) (*kingmem.System, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		return nil, nil, err
	}
	sys, err := kingmem.New(cfg, nil, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	return sys, logger, nil
}

// runResolve 执行一次记忆解析并输出 JSON 结果
func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	query := fs.String("query", "", "search query")
	userID := fs.String("user", "", "user id")
	agentID := fs.String("agent", "", "agent id")
	sessionID := fs.String("session", "", "session id")
	resolveEntity := fs.Bool("resolve-entity", false, "canonicalize the user handle")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" || *userID == "" {
		return fmt.Errorf("--query and --user are required")
	}

	sys, logger, err := buildSystem(*configPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = sys.Close()
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := sys.Resolver.Resolve(ctx, memory.ResolveRequest{
		Query:         *query,
		UserID:        *userID,
		AgentID:       *agentID,
		SessionID:     *sessionID,
		ResolveEntity: *resolveEntity,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// runSeeds 列出种子记忆
func runSeeds(args []string) error {
	fs := flag.NewFlagSet("seeds", flag.ExitOnError)
	agentID := fs.String("agent", "", "agent id for lineage seeds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seeds := memory.NewSeedStore(nil)
	var memories []types.Memory
	if *agentID != "" {
		memories = seeds.Lineage(*agentID)
	} else {
		memories = seeds.Collective()
	}

	for _, m := range memories {
		fmt.Printf("%-28s %.1f  %s\n", m.ID, m.Importance, m.Content)
	}
	fmt.Printf("total: %d\n", len(memories))
	return nil
}

// runHealth 检查数据库与 Redis 连通性
func runHealth(args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sys, logger, err := buildSystem(*configPath)
	if err != nil {
		fmt.Println("status: unhealthy")
		return err
	}
	defer func() {
		_ = sys.Close()
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// not-found 也代表数据库连通
	if _, err := sys.Entities.GetByID(ctx, "healthcheck"); types.IsErrorCode(err, types.ErrResolverUnavailable) {
		fmt.Println("status: unhealthy (database)")
		return err
	}

	fmt.Println("status: healthy")
	return nil
}
