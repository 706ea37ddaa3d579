package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"cardroom-server/internal/jwt"
	"cardroom-server/pkg/ledger"
)

var command = flag.String("c", "player", "specifies the command (player, token)")

func main() {
	flag.Parse()
	jwt.LoadKeys()

	switch *command {
	case "player":
		name, err := getInput("Display name")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		if name == "" {
			os.Exit(1)
		}

		player, err := ledger.CreatePlayer(context.Background(), name)
		if err != nil {
			logrus.WithError(err).Fatal("could not create player")
		}

		fmt.Printf("Created player %d\n", player.ID)

		signedJWT, err := jwt.Sign(player.ID)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(signedJWT)

	case "token":
		idStr, err := getInput("Player ID")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse player ID")
		}

		player, err := ledger.GetPlayerByID(context.Background(), id)
		if err != nil {
			logrus.WithError(err).Fatal("could not find player")
		}

		signedJWT, err := jwt.Sign(player.ID)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(signedJWT)

	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
