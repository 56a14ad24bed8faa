// Command assess scores smart city readiness answer sets offline.
//
//	assess catalog [--category domain-knowledge] [--json]
//	assess score --answers answers.json [--catalog catalog.json]
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
