// Package main implements a small utility that prints the bcrypt hash of a
// password. Useful for seeding users by hand during development, since the
// API only stores hashed passwords.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] <password>")
		os.Exit(2)
	}

	password := flag.Arg(0)
	if len(password) > 72 {
		fmt.Fprintln(os.Stderr, "hash-generator: bcrypt rejects passwords longer than 72 bytes")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}
