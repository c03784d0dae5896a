package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
	"github.com/kailas-cloud/unisearch/internal/logger"
	"github.com/kailas-cloud/unisearch/internal/transport/elastic"
	searchuc "github.com/kailas-cloud/unisearch/internal/usecase/search"
)

type searchOutput struct {
	Hits     int                      `json:"hits"`
	MaxScore *float64                 `json:"max_score"`
	Edges    []page.Edge[result.Node] `json:"edges"`
	PageInfo page.Info                `json:"pageInfo"`
	Raw      json.RawMessage          `json:"es_result,omitempty"`
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		addresses []string
		username  string
		password  string
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a request against Elasticsearch and print the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.readRequest(cmd)
			if err != nil {
				return err
			}
			c, err := opts.compiler()
			if err != nil {
				return err
			}

			log, err := logger.NewLogger("cli", opts.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := elastic.New(elastic.Config{
				Addresses: addresses,
				Username:  username,
				Password:  password,
				Logger:    log,
			})
			if err != nil {
				return err
			}

			ctx := logger.With(logger.ContextWithLogger(cmd.Context(), log),
				zap.Strings("es", addresses))
			conn, err := searchuc.New(client, c).UnifiedSearch(ctx, req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := searchOutput{
				Hits:     conn.TotalHits,
				MaxScore: conn.MaxScore,
				Edges:    conn.Edges,
				PageInfo: conn.PageInfo,
			}
			if raw && len(conn.Results) > 0 {
				out.Raw = conn.Results[0]
			}
			return opts.print(cmd, out)
		},
	}

	cmd.Flags().StringSliceVar(&addresses, "es", []string{"http://localhost:9200"}, "Elasticsearch addresses")
	cmd.Flags().StringVar(&username, "username", "", "Elasticsearch user")
	cmd.Flags().StringVar(&password, "password", "", "Elasticsearch password")
	cmd.Flags().BoolVar(&raw, "raw", false, "include the raw engine reply")
	return cmd
}
