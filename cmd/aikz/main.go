// Command aikz is the operator CLI: portfolio summaries, stock, customer
// statements, overdue reminders and demo data, straight against the
// database.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
