package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli"

	"github.com/bwesterb/go-slhdsa-masked"
)

func cmdAlgs(c *cli.Context) error {
	for _, name := range slhdsa.ListNames() {
		fmt.Println(name)
	}
	return nil
}

func selftest(name string) error {
	sk, pk, err := slhdsa.GenerateKeyPair(name, rand.Reader)
	if err != nil {
		return fmt.Errorf("%s: key generation: %w", name, err)
	}

	msg := []byte("selftest message")
	sig, err := sk.Sign(rand.Reader, msg)
	if err != nil {
		return fmt.Errorf("%s: signing: %w", name, err)
	}

	if !pk.Verify(msg, sig) {
		return fmt.Errorf("%s: signature failed to verify", name)
	}

	return nil
}

func cmdSelftest(c *cli.Context) error {
	var result error
	for _, name := range slhdsa.ListNames() {
		if err := selftest(name); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		fmt.Printf("%s ok\n", name)
	}
	return result
}

func main() {
	app := cli.NewApp()
	app.Name = "slhdsa-kat"
	app.Usage = "List SLH-DSA-SHAKE instances and run self-tests"

	app.Commands = []cli.Command{
		{
			Name:   "algs",
			Usage:  "List SLH-DSA-SHAKE parameter sets",
			Action: cmdAlgs,
		},
		{
			Name:   "selftest",
			Usage:  "Generate a key pair, sign, and verify for every parameter set",
			Action: cmdSelftest,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
