package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/query"
	"github.com/kailas-cloud/unisearch/internal/domain/search/request"
	"github.com/kailas-cloud/unisearch/internal/version"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	file             string
	index            string
	timeZone         string
	defaultLanguage  string
	reservableFilter bool
	pretty           bool
	logLevel         string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "esquery",
		Short: "Compile and run unified search requests",
		Long: `esquery compiles a unified search request (the JSON body of POST /v1/search)
into the Elasticsearch document the API would send, and optionally runs it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "-", "request file, - for stdin")
	pf.StringVar(&opts.index, "index", "", "override the request index")
	pf.StringVar(&opts.timeZone, "time-zone", query.DefaultTimeZone, "zone for openAt values without an offset")
	pf.StringVar(&opts.defaultLanguage, "default-language", string(language.Default), "sort language when none is requested")
	pf.BoolVar(&opts.reservableFilter, "reservable-filter", false, "enable the mustHaveReservableResource filter")
	pf.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newCompileCmd(opts), newSearchCmd(opts))
	return cmd
}

// readRequest loads and validates the request named by opts.file.
func (o *rootOptions) readRequest(cmd *cobra.Command) (request.Request, error) {
	var r io.Reader = cmd.InOrStdin()
	if o.file != "-" {
		f, err := os.Open(o.file)
		if err != nil {
			return request.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var in request.Input
	if err := json.NewDecoder(r).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return request.Request{}, fmt.Errorf("decode request: %w", err)
	}
	if o.index != "" {
		in.Index = o.index
	}
	return request.New(in)
}

func (o *rootOptions) compiler() (*query.Compiler, error) {
	tz, err := time.LoadLocation(o.timeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone: %w", err)
	}
	lang := language.Code(o.defaultLanguage)
	if !lang.IsDefined() {
		return nil, fmt.Errorf("unsupported default language %q", o.defaultLanguage)
	}
	return query.New(query.Options{
		DefaultLanguage:          lang,
		TimeZone:                 tz,
		ReservableResourceFilter: o.reservableFilter,
	}), nil
}

func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if o.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
