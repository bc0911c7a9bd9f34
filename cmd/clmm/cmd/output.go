package cmd

import (
	"fmt"
	"io"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

func printJSON(w io.Writer, v any) error {
	data, err := sonnet.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func keyFlag(cmd *cobra.Command, name string) (solana.PublicKey, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if s == "" {
		return solana.PublicKey{}, fmt.Errorf("--%s is required", name)
	}
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("--%s: %w", name, err)
	}
	return key, nil
}

func keysFlag(cmd *cobra.Command, name string) ([]solana.PublicKey, error) {
	values, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil, err
	}
	keys := make([]solana.PublicKey, 0, len(values))
	for _, s := range values {
		key, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// sqrtPriceLimitFlag returns nil when the flag is empty.
func sqrtPriceLimitFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil || s == "" {
		return nil, err
	}
	limit, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("--%s %q is not an integer", name, s)
	}
	return limit, nil
}
