package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/cryptograss/stonemint/pkg/showminting"
	"github.com/cryptograss/stonemint/pkg/showminting/chain"
)

const (
	artistIDCmdName     = "artist-id"
	blockHeightCmdName  = "blockheight"
	shapesCmdName       = "shapes"
	numberOfSetsCmdName = "number-of-sets"
	stonePriceCmdName   = "stone-price-eth"
	secretCmdName       = "secret"
	secretsFileCmdName  = "secrets-file"
	interactiveCmdName  = "interactive"
	dryRunCmdName       = "dry-run"
)

type submitConfig struct {
	Chain chainConfig
	Keys  signingKeyConfig

	ArtistID      string
	BlockHeight   string
	Shapes        []string
	NumberOfSets  string
	StonePriceEth string
	Secrets       []string
	SecretsFile   string
	Interactive   bool
	DryRun        bool
}

func newSubmitCmd(app *stonemintApp) *cobra.Command {
	config := &submitConfig{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "makes a show available for stone minting",
		Long:  "hashes the rabbit secrets, converts the stone price to wei and sends the makeShowAvailableForStoneMinting transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execSubmitCmd(cmd.Context(), app, config)
		},
	}
	cmd.Flags().StringVar(&config.ArtistID, artistIDCmdName, "", "artist id")
	cmd.Flags().StringVar(&config.BlockHeight, blockHeightCmdName, "", "block height of the show")
	cmd.Flags().StringSliceVar(&config.Shapes, shapesCmdName, nil, "stone shapes, comma separated or repeated")
	cmd.Flags().StringVar(&config.NumberOfSets, numberOfSetsCmdName, "", "number of sets")
	cmd.Flags().StringVar(&config.StonePriceEth, stonePriceCmdName, "", "price of a stone in ether, ie 0.05")
	cmd.Flags().StringArrayVar(&config.Secrets, secretCmdName, nil, "rabbit secret, repeat the flag for every secret")
	cmd.Flags().StringVar(&config.SecretsFile, secretsFileCmdName, "", "file of rabbit secrets, one per line")
	cmd.Flags().BoolVarP(&config.Interactive, interactiveCmdName, "i", false, "ask the values missing from the flags")
	cmd.Flags().BoolVar(&config.DryRun, dryRunCmdName, false, "print the arguments and the call data instead of sending the transaction")
	cmd.MarkFlagsMutuallyExclusive(secretCmdName, secretsFileCmdName)
	addChainFlags(cmd, &config.Chain)
	addKeyFlags(cmd, &config.Keys)
	return cmd
}

func execSubmitCmd(ctx context.Context, app *stonemintApp, config *submitConfig) error {
	fields, err := config.fields()
	if err != nil {
		return err
	}
	if config.Interactive {
		if err := askMissingFields(ctx, fields); err != nil {
			return err
		}
	}

	// validate the form before asking for the key or connecting to the network
	req, err := showminting.CollectInputs(fields, config.Chain.collectOptions())
	if err != nil {
		return err
	}

	_, method, err := config.Chain.method()
	if err != nil {
		return err
	}
	if err := showminting.CheckRequest(method, req); err != nil {
		return err
	}

	if config.DryRun {
		data, err := chain.Calldata(method, req.Args())
		if err != nil {
			return err
		}
		printRequest(req)
		consoleWriter.Println("Call data:", hexutil.Encode(data))
		return nil
	}

	adapter, closeFn, err := newAdapter(ctx, &config.Chain, &config.Keys, app.newSubmitter)
	if err != nil {
		return err
	}
	defer closeFn()

	handle, err := adapter.Submit(ctx, req)
	if err != nil {
		return err
	}
	printTransaction(handle)
	return nil
}

func (c *submitConfig) fields() (showminting.Fields, error) {
	secrets := strings.Join(c.Secrets, "\n")
	if c.SecretsFile != "" {
		content, err := readFile(c.SecretsFile)
		if err != nil {
			return nil, fmt.Errorf("reading secrets file: %w", err)
		}
		secrets = trimFinalNewline(content)
	}
	return showminting.Fields{
		showminting.FieldArtistID:      c.ArtistID,
		showminting.FieldBlockHeight:   c.BlockHeight,
		showminting.FieldShapes:        strings.Join(c.Shapes, "\n"),
		showminting.FieldNumberOfSets:  c.NumberOfSets,
		showminting.FieldStonePriceEth: c.StonePriceEth,
		showminting.FieldSecrets:       secrets,
	}, nil
}

func askMissingFields(ctx context.Context, fields showminting.Fields) error {
	prompts := []struct {
		field     string
		message   string
		help      string
		multiline bool
	}{
		{field: showminting.FieldArtistID, message: "Artist ID:"},
		{field: showminting.FieldBlockHeight, message: "Block height:", help: "block height of the show"},
		{field: showminting.FieldShapes, message: "Shapes:", help: "one shape per line, finish with an empty line", multiline: true},
		{field: showminting.FieldNumberOfSets, message: "Number of sets:"},
		{field: showminting.FieldStonePriceEth, message: "Stone price (ETH):", help: "decimal ether amount, ie 0.05"},
		{field: showminting.FieldSecrets, message: "Rabbit secrets:", help: "one secret per line, finish with an empty line", multiline: true},
	}
	for _, p := range prompts {
		if strings.TrimSpace(fields[p.field]) != "" {
			continue
		}
		var value string
		var err error
		if p.multiline {
			value, err = prompter.Multiline(ctx, p.message, p.help)
		} else {
			value, err = prompter.Input(ctx, p.message, p.help)
		}
		if err != nil {
			return err
		}
		fields[p.field] = value
	}
	return nil
}

// trimFinalNewline drops the line ending of the last line of a file so that it
// does not count as an extra blank line.
func trimFinalNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		s = strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
	}
	return s
}
