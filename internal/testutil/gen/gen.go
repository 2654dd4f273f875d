// Package gen prints an example access token and the JWKS it verifies against.
//
//	go run ./internal/testutil/gen
package main

import (
	"encoding/json"
	"fmt"
	"os"

	tu "github.com/authing/authing-go-sdk/v3/internal/testutil"
)

func main() {
	keys := tu.NewKeySet("example")
	accessToken, claims := keys.ValidAccessToken()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")

	fmt.Println("access token:")
	fmt.Println(accessToken)
	fmt.Println("claims:")
	if err := enc.Encode(claims); err != nil {
		panic(err)
	}
	fmt.Println("jwks:")
	if err := enc.Encode(keys.JWKS()); err != nil {
		panic(err)
	}
}
