package main

import (
	"context"
	"fmt"

	"fraudscore/internal/core/credential"

	"github.com/urfave/cli/v3"
)

var (
	passwordFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "Plaintext password",
		Required: true,
	}

	hashedFlag = &cli.StringFlag{
		Name:     "hashed",
		Usage:    "Stored hash to check against",
		Required: true,
	}

	costLogNFlag = &cli.IntFlag{
		Name:    "ln",
		Usage:   "scrypt cost exponent",
		Value:   credential.DefaultLogN,
		Sources: cli.EnvVars("CRED_SCRYPT_LN"),
	}
)

type hashOutput struct {
	Hashed string `json:"hashed" yaml:"hashed"`
}

type verifyOutput struct {
	Valid       bool   `json:"valid" yaml:"valid"`
	Scheme      string `json:"scheme" yaml:"scheme"`
	NeedsRehash bool   `json:"needs_rehash" yaml:"needs_rehash"`
}

func hashCmd() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Hash a password the way POST /hash-password does",
		Flags: []cli.Flag{passwordFlag, costLogNFlag},
		Action: func(_ context.Context, c *cli.Command) error {
			h, err := credential.New(credential.WithCost(int(c.Int(costLogNFlag.Name)), credential.DefaultR, credential.DefaultP))
			if err != nil {
				return err
			}
			out, err := h.Hash(c.String(passwordFlag.Name))
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			return encode(c, hashOutput{Hashed: out})
		},
	}
}

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check a password against a stored hash; exits 1 on mismatch",
		Flags: []cli.Flag{passwordFlag, hashedFlag},
		Action: func(_ context.Context, c *cli.Command) error {
			h := credential.MustNew()
			hashed := c.String(hashedFlag.Name)
			res := verifyOutput{
				Valid:       h.Verify(c.String(passwordFlag.Name), hashed),
				Scheme:      string(credential.Identify(hashed)),
				NeedsRehash: h.NeedsRehash(hashed),
			}
			if err := encode(c, res); err != nil {
				return err
			}
			if !res.Valid {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
