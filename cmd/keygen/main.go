package main

import (
	"fmt"
	"log"

	internaljwt "barn-chat-backend/internal/jwt"
	"barn-chat-backend/utils"
)

// keygen prints a fresh service API key and the bcrypt hash to store in
// SERVICE_KEY_HASH.
func main() {
	key := utils.GenerateAPIKey()

	hash, err := internaljwt.HashKey(key)
	if err != nil {
		log.Fatalf("hash api key: %v", err)
	}

	fmt.Printf("API key:          %s\n", key)
	fmt.Printf("SERVICE_KEY_HASH: %s\n", hash)
}
