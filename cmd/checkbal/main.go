package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0gfoundation/0g-serving-client/internal/chain"
	"github.com/0gfoundation/0g-serving-client/internal/fee"
)

func main() {
	rpc := flag.String("rpc", "https://evmrpc-testnet.0g.ai", "chain RPC endpoint")
	contract := flag.String("contract", "", "serving contract address")
	key := flag.String("key", "", "user private key (hex)")
	provider := flag.String("provider", "", "provider address (optional, prints the sub-account)")
	flag.Parse()

	if *contract == "" || *key == "" {
		fmt.Fprintln(os.Stderr, "usage: checkbal -contract 0x... -key <hex> [-provider 0x...]")
		os.Exit(2)
	}

	eth, err := ethclient.Dial(*rpc)
	if err != nil {
		fatal(err)
	}
	privKey, err := crypto.HexToECDSA(*key)
	if err != nil {
		fatal(err)
	}
	user := crypto.PubkeyToAddress(privKey.PublicKey)
	c, err := chain.NewInferenceServing(common.HexToAddress(*contract), eth)
	if err != nil {
		fatal(err)
	}
	opts := &bind.CallOpts{Context: context.Background()}

	ledger, err := c.GetLedger(opts, user)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("user:       %s\n", user.Hex())
	fmt.Printf("available:  %s neuron (%s A0GI)\n", ledger.AvailableBalance, fee.FromSmallestUnit(ledger.AvailableBalance))
	fmt.Printf("total:      %s neuron\n", ledger.TotalBalance)
	fmt.Printf("providers:  %d\n", len(ledger.InferenceProviders))

	if *provider != "" {
		acct, err := c.GetAccount(opts, user, common.HexToAddress(*provider))
		if err != nil {
			fatal(err)
		}
		fmt.Printf("\nsub-account %s\n", *provider)
		fmt.Printf("balance:    %s neuron (%s A0GI)\n", acct.Balance, fee.FromSmallestUnit(acct.Balance))
		fmt.Printf("pending:    %s neuron\n", acct.PendingRefund)
		fmt.Printf("nonce:      %s\n", acct.Nonce)
		fmt.Printf("tee signer: %s\n", acct.TeeSignerAddress.Hex())
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
