// Command hashpass prints an argon2id hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"portfolio-backend-go/internal/services"

	"github.com/sirupsen/logrus"
)

func main() {
	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "password: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		logrus.Fatal("password must not be empty")
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("hash failed")
	}
	fmt.Println(hash)
}
