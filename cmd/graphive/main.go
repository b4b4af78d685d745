package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okralabs/graphive/internal/config"
	"github.com/okralabs/graphive/internal/pipeline"
	"github.com/okralabs/graphive/internal/util"
	"github.com/okralabs/graphive/pkg/ai"
	"github.com/okralabs/graphive/pkg/ai/provider"
	"github.com/okralabs/graphive/pkg/document"
	"github.com/okralabs/graphive/pkg/graph"
	"github.com/okralabs/graphive/pkg/loader"
	"github.com/okralabs/graphive/pkg/loader/doc"
	loaderio "github.com/okralabs/graphive/pkg/loader/io"
	"github.com/okralabs/graphive/pkg/loader/pdf"
	loaders3 "github.com/okralabs/graphive/pkg/loader/s3"
	"github.com/okralabs/graphive/pkg/loader/web"
	"github.com/okralabs/graphive/pkg/logger"
	"github.com/okralabs/graphive/pkg/logger/console"
	"github.com/okralabs/graphive/pkg/query"
	storeneo4j "github.com/okralabs/graphive/pkg/store/neo4j"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "graphive",
		Usage:  "Build a knowledge graph from documents and query it in natural language",
		Flags:  flags(),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input_dir",
			Usage:    "Local directory or s3://bucket/prefix holding the input documents",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "chunk_size",
			Usage: "Chunk size in characters or tokens",
			Value: 200,
		},
		&cli.IntFlag{
			Name:  "chunk_overlap",
			Usage: "Overlap between consecutive chunks",
			Value: 40,
		},
		&cli.StringFlag{
			Name:  "chunk_unit",
			Usage: "Chunk measurement unit (chars, tokens)",
			Value: config.ChunkUnitChars,
		},
		&cli.StringFlag{
			Name:    "llm_provider",
			Usage:   "Chat model provider (openai, ollama)",
			Value:   ai.ProviderOpenAI,
			EnvVars: []string{"LLM_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "llm_model",
			Usage:   "Chat model used for extraction and query answering",
			Value:   "gpt-4o-mini",
			EnvVars: []string{"LLM_MODEL"},
		},
		&cli.StringFlag{
			Name:    "llm_base_url",
			Usage:   "Override base URL for the chat provider",
			EnvVars: []string{"LLM_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding_provider",
			Usage:   "Embedding model provider (openai, ollama)",
			Value:   ai.ProviderOpenAI,
			EnvVars: []string{"EMBEDDING_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "embedding_model",
			Usage:   "Embedding model used for the vector index",
			Value:   "text-embedding-3-small",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding_base_url",
			Usage:   "Override base URL for the embedding provider",
			EnvVars: []string{"EMBEDDING_BASE_URL"},
		},
		&cli.IntFlag{
			Name:  "embedding_dim",
			Usage: "Embedding vector dimension",
			Value: 1536,
		},
		&cli.StringFlag{
			Name:    "neo4j_uri",
			Usage:   "Neo4j connection URI",
			Value:   "neo4j://localhost:7687",
			EnvVars: []string{"NEO4J_URI"},
		},
		&cli.StringFlag{
			Name:    "neo4j_user",
			Usage:   "Neo4j username",
			Value:   "neo4j",
			EnvVars: []string{"NEO4J_USER"},
		},
		&cli.StringFlag{
			Name:    "neo4j_password",
			Usage:   "Neo4j password",
			EnvVars: []string{"NEO4J_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "database_name",
			Usage:   "Neo4j database name (empty for the default database)",
			EnvVars: []string{"NEO4J_DATABASE"},
		},
		&cli.BoolFlag{
			Name:  "clear_existing",
			Usage: "Remove all existing nodes and relationships before ingesting",
		},
		&cli.StringFlag{
			Name:  "question",
			Usage: "Natural language question to answer after ingestion",
		},
		&cli.IntFlag{
			Name:  "top_k",
			Usage: "Number of context chunks retrieved for a question",
			Value: 5,
		},
		&cli.StringSliceFlag{
			Name:  "allowed_nodes",
			Usage: "Entity types the extractor may produce",
		},
		&cli.StringSliceFlag{
			Name:  "allowed_relationships",
			Usage: "Relationship types the extractor may produce",
		},
		&cli.BoolFlag{
			Name:  "node_properties",
			Usage: "Keep extracted entity descriptions as node properties",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "relationship_properties",
			Usage: "Keep extracted relationship descriptions as properties",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "node_label",
			Usage: "Label of the chunk source nodes",
			Value: "Document",
		},
		&cli.StringFlag{
			Name:  "text_property",
			Usage: "Property holding the chunk text",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "embedding_property",
			Usage: "Property holding the chunk embedding",
			Value: "embedding",
		},
		&cli.StringFlag{
			Name:  "vector_index",
			Usage: "Name of the vector index",
			Value: "vector_index",
		},
		&cli.StringFlag{
			Name:  "keyword_index",
			Usage: "Name of the fulltext keyword index",
			Value: "keyword_index",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			EnvVars: []string{"DEBUG"},
		},
	}
}

func run(c *cli.Context) error {
	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: c.Bool("debug"),
	}))

	opts := optionsFromContext(c)
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chat, err := provider.NewChatClient(opts.LLMProvider, ai.ClientParams{
		Model:   opts.LLMModel,
		BaseURL: opts.LLMBaseURL,
		APIKey:  opts.APIKey,
	})
	if err != nil {
		return err
	}

	embedder, err := provider.NewEmbeddingClient(opts.EmbeddingProvider, ai.ClientParams{
		Model:     opts.EmbeddingModel,
		BaseURL:   opts.EmbeddingBaseURL,
		APIKey:    opts.APIKey,
		Dimension: opts.EmbeddingDim,
	})
	if err != nil {
		return err
	}

	processor, err := buildProcessor(ctx, opts)
	if err != nil {
		return err
	}

	st, err := storeneo4j.NewStore(ctx, storeneo4j.NewStoreParams{
		URI:         opts.Neo4jURI,
		Username:    opts.Neo4jUser,
		Password:    opts.Neo4jPassword,
		Database:    opts.DatabaseName,
		SourceLabel: opts.NodeLabel,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			logger.Warn("[Main] Failed to close store", "error", err)
		}
	}()

	extractor := graph.NewExtractor(graph.NewExtractorParams{
		Client:                 chat,
		AllowedNodes:           opts.AllowedNodes,
		AllowedRelationships:   opts.AllowedRelationships,
		NodeProperties:         opts.NodeProperties,
		RelationshipProperties: opts.RelationshipProperties,
		MaxTries:               opts.MaxTries,
	})

	answerer := query.NewAnswerer(query.NewAnswererParams{
		Client:   chat,
		Store:    st,
		MaxTries: opts.MaxTries,
	})

	return pipeline.Run(ctx, opts, pipeline.Deps{
		Processor: processor,
		Extractor: extractor,
		Store:     st,
		Embedder:  embedder,
		Answerer:  answerer,
		Out:       os.Stdout,
	})
}

func optionsFromContext(c *cli.Context) config.Options {
	return config.Options{
		InputDir:               c.String("input_dir"),
		ChunkSize:              c.Int("chunk_size"),
		ChunkOverlap:           c.Int("chunk_overlap"),
		ChunkUnit:              c.String("chunk_unit"),
		LLMProvider:            c.String("llm_provider"),
		LLMModel:               c.String("llm_model"),
		LLMBaseURL:             c.String("llm_base_url"),
		EmbeddingProvider:      c.String("embedding_provider"),
		EmbeddingModel:         c.String("embedding_model"),
		EmbeddingBaseURL:       c.String("embedding_base_url"),
		EmbeddingDim:           c.Int("embedding_dim"),
		APIKey:                 util.GetEnvString("AI_API_KEY", util.GetEnv("OPENAI_API_KEY")),
		MaxTries:               util.GetEnvInt("LLM_MAX_TRIES", 1),
		Neo4jURI:               c.String("neo4j_uri"),
		Neo4jUser:              c.String("neo4j_user"),
		Neo4jPassword:          c.String("neo4j_password"),
		DatabaseName:           c.String("database_name"),
		ClearExisting:          c.Bool("clear_existing"),
		Question:               c.String("question"),
		TopK:                   c.Int("top_k"),
		AllowedNodes:           c.StringSlice("allowed_nodes"),
		AllowedRelationships:   c.StringSlice("allowed_relationships"),
		NodeProperties:         c.Bool("node_properties"),
		RelationshipProperties: c.Bool("relationship_properties"),
		NodeLabel:              c.String("node_label"),
		TextProperty:           c.String("text_property"),
		EmbeddingProperty:      c.String("embedding_property"),
		VectorIndex:            c.String("vector_index"),
		KeywordIndex:           c.String("keyword_index"),
		AWSRegion:              util.GetEnvString("AWS_REGION", "us-east-1"),
		AWSEndpoint:            util.GetEnv("AWS_ENDPOINT_URL"),
		AWSAccessKey:           util.GetEnv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:           util.GetEnv("AWS_SECRET_ACCESS_KEY"),
		Debug:                  c.Bool("debug"),
	}
}

// buildProcessor wires the splitter and the per-extension loaders. For
// s3:// inputs the base loader reads from the bucket and also lists the
// object keys.
func buildProcessor(ctx context.Context, opts config.Options) (*document.Processor, error) {
	mode := document.ModeCharacter
	if opts.ChunkUnit == config.ChunkUnitTokens {
		mode = document.ModeToken
	}

	splitter, err := document.NewSplitter(document.NewSplitterParams{
		Mode:         mode,
		ChunkSize:    opts.ChunkSize,
		ChunkOverlap: opts.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	var base loader.FileLoader
	var lister document.KeyLister

	if bucketPath, ok := strings.CutPrefix(opts.InputDir, "s3://"); ok {
		bucket, _, _ := strings.Cut(bucketPath, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid s3 input %q: missing bucket", opts.InputDir)
		}

		s3Loader, err := loaders3.NewS3FileLoader(ctx, loaders3.NewS3FileLoaderParams{
			Bucket:    bucket,
			Endpoint:  opts.AWSEndpoint,
			Region:    opts.AWSRegion,
			AccessKey: opts.AWSAccessKey,
			SecretKey: opts.AWSSecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 loader: %w", err)
		}

		base = s3Loader
		lister = s3Loader
	} else {
		base = loaderio.NewIOFileLoader()
	}

	pdfLoader := pdf.NewPDFLoader(base)
	docLoader := doc.NewDocLoader(base)
	htmlLoader := web.NewHTMLLoader(base)

	return document.NewProcessor(document.NewProcessorParams{
		Splitter: splitter,
		Loaders: map[string]loader.FileLoader{
			".txt":  base,
			".md":   base,
			".pdf":  pdfLoader,
			".docx": docLoader,
			".html": htmlLoader,
			".htm":  htmlLoader,
		},
		Lister: lister,
	}), nil
}
