package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/spf13/cobra"
)

// The local store is a badger database, so these commands cannot run while a
// server holds the same LOCAL_ROOT open.
var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "Reads and writes results in the local attribute store",
}

func openLocalStore(cmd *cobra.Command) (*attributes.LocalStore, string, error) {
	cfg, cfgErr := loadConfig(cmd)
	if cfgErr != nil {
		return nil, "", cfgErr
	}

	domain, domainErr := cmd.Flags().GetString("domain")
	if domainErr != nil {
		return nil, "", fmt.Errorf("failed to get domain: %w", domainErr)
	}
	if domain == "" {
		domain = cfg.DomainName
	}
	if domain == "" {
		return nil, "", errors.New("no domain given: set DOMAIN_NAME or --domain")
	}

	store, storeErr := attributes.NewLocalStore(cfg.LocalRoot)
	if storeErr != nil {
		return nil, "", storeErr
	}
	return store, domain, nil
}

func parseAttributes(args []string) ([]attributes.Attribute, error) {
	attrs := make([]attributes.Attribute, 0, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("attribute %q is not in name=value form", arg)
		}
		attrs = append(attrs, attributes.Attribute{Name: name, Value: value})
	}
	return attrs, nil
}

var attributesPutCmd = &cobra.Command{
	Use:   "put IDENTIFIER NAME=VALUE...",
	Short: "Replaces the attributes of an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (retErr error) {
		attrs, parseErr := parseAttributes(args[1:])
		if parseErr != nil {
			return parseErr
		}

		store, domain, storeErr := openLocalStore(cmd)
		if storeErr != nil {
			return storeErr
		}
		defer func() {
			retErr = errors.Join(retErr, store.Close())
		}()

		return store.Put(domain, args[0], attrs)
	},
}

var attributesGetCmd = &cobra.Command{
	Use:   "get IDENTIFIER",
	Short: "Prints the attributes of an item, one name=value per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (retErr error) {
		store, domain, storeErr := openLocalStore(cmd)
		if storeErr != nil {
			return storeErr
		}
		defer func() {
			retErr = errors.Join(retErr, store.Close())
		}()

		attrs, getErr := store.Get(domain, args[0])
		if getErr != nil {
			return getErr
		}
		if len(attrs) == 0 {
			return fmt.Errorf("item %q not found in domain %q", args[0], domain)
		}
		for _, attr := range attrs {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", attr.Name, attr.Value); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
	attributesCmd.AddCommand(attributesPutCmd, attributesGetCmd)

	attributesCmd.PersistentFlags().StringP("domain", "d", "", "Domain to use, defaults to DOMAIN_NAME")
}
