package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/shop/internal/storage/postgres"
)

const usage = `управление схемой базы магазина

usage: migrate [flags] <command>

commands:
  up       применить ожидающие миграции (все; ограничить через -steps)
  down     откатить применённые миграции (одну; больше через -steps)
  status   показать версию схемы и число применённых миграций

flags:
`

var errNoDSN = errors.New("postgres dsn is not set: pass -dsn or export SHOP_POSTGRES_DSN")

func main() {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dsn := flags.String("dsn", "", "postgres connection string (default: $SHOP_POSTGRES_DSN)")
	steps := flags.Int("steps", 0, "limit the number of migrations (0 = command default)")
	timeout := flags.Duration("timeout", 30*time.Second, "overall deadline for the command")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	command := flags.Arg(0)
	if command == "" {
		command = "status"
	}

	resolved, err := resolveDSN(*dsn)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := postgres.Open(ctx, resolved)
	if err != nil {
		fatal(fmt.Errorf("open postgres store: %w", err))
	}
	defer store.Close()

	summary, err := run(ctx, store, command, *steps)
	if err != nil {
		fatal(err)
	}
	fmt.Println(summary)
}

// resolveDSN выбирает строку подключения: флаг важнее окружения.
func resolveDSN(flagValue string) (string, error) {
	if dsn := strings.TrimSpace(flagValue); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(os.Getenv("SHOP_POSTGRES_DSN")); dsn != "" {
		return dsn, nil
	}
	return "", errNoDSN
}

// run выполняет команду и возвращает строку-итог для оператора. Каждая
// команда заканчивается чтением статуса, чтобы итог отражал реальное
// состояние схемы, а не запрошенное.
func run(ctx context.Context, store *postgres.Store, command string, steps int) (string, error) {
	command = strings.ToLower(strings.TrimSpace(command))
	switch command {
	case "up":
		if err := store.MigrateUp(ctx, steps); err != nil {
			return "", fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			return "", fmt.Errorf("migrate down: %w", err)
		}
	case "status":
	default:
		return "", fmt.Errorf("unknown command %q (expected up, down or status)", command)
	}

	version, applied, err := store.MigrationStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("migration status: %w", err)
	}
	return fmt.Sprintf("%s: schema version %d, %d migrations applied", command, version, applied), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}
