package main

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/ledger"
)

func main() {
	waitForDB()
	ledger.Migrate()
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh := func() *sql.DB {
				defer func() { _ = recover() }()
				return ledger.Instance()
			}()

			if dbh != nil {
				return
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
