/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/chatpdf/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; CHATPDF_* variables may come from the environment
	_ = godotenv.Load()
}
