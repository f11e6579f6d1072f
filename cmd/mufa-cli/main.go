package main

import (
	"context"

	"mufa-backend/cmd/mufa-cli/commands"
	"mufa-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "mufa-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
