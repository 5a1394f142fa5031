// Command hash-generator prints bcrypt hashes for the given passwords,
// for seeding users directly in SQL during development.
package main

import (
	"fmt"
	"os"

	"github.com/kavitasoren02/TaskManager/internal/service/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <password> [password ...]")
		os.Exit(1)
	}

	hasher := auth.NewBcryptVerifier()
	for _, password := range os.Args[1:] {
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	}
}
