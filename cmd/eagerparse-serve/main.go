/*
Eagerparse-serve hosts a trained eagerparse model over HTTP.

It loads a model previously saved by eagerparse --save-model and begins
listening for requests. POST /parse accepts corpus-format sentence blocks
and responds with the same tab-separated prediction lines the batch
evaluator writes; GET /health reports the loaded model's run ID, template
fingerprint, and vocabulary sizes. /parse requires a bearer token obtained
from POST /login with the configured API key.

Usage:

	eagerparse-serve [flags]

The flags are:

	-v, --version
		Give the current version of the eagerparse server and then exit.

	-m, --model PATH
		Load the model at PATH. With --model-store sqlite, PATH is the
		directory holding the model database. Required.

	--model-store BACKEND
		Model persistence backend to load --model with: "file" or "sqlite".
		Defaults to "file".

	--addr ADDRESS
		Listen on the given address, in BIND_ADDRESS:PORT or :PORT format.
		If not given, will default to the value of environment variable
		EAGERPARSE_LISTEN_ADDRESS, and if that is not given, to ":8080".

	--api-key-hash HASH
		The bcrypt hash of the API key that /login accepts. If not given,
		will default to the value of environment variable
		EAGERPARSE_API_KEY_HASH. Required in one of the two forms.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable EAGERPARSE_TOKEN_SECRET, and if that is not
		given, a random secret will be generated; tokens issued with a
		random secret become invalid as soon as the server shuts down.
*/
package main

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/eagerparse/internal/features"
	"github.com/dekarrin/eagerparse/internal/learner"
	"github.com/dekarrin/eagerparse/internal/modelstore"
	"github.com/dekarrin/eagerparse/internal/serveapi"
	"github.com/dekarrin/eagerparse/internal/version"
)

const (
	EnvListen     = "EAGERPARSE_LISTEN_ADDRESS"
	EnvSecret     = "EAGERPARSE_TOKEN_SECRET"
	EnvAPIKeyHash = "EAGERPARSE_API_KEY_HASH"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of the eagerparse server and then exit.")
	flagModel      = pflag.StringP("model", "m", "", "Load the model at the given path.")
	flagModelStore = pflag.String("model-store", "file", "Model persistence backend, one of {file, sqlite}.")
	flagAddr       = pflag.String("addr", "", "Listen on the given address.")
	flagAPIKeyHash = pflag.String("api-key-hash", "", "The bcrypt hash of the accepted API key.")
	flagSecret     = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	if *flagModel == "" {
		fmt.Fprintf(os.Stderr, "--model is required\nDo -h for help.\n")
		os.Exit(1)
	}

	addr := os.Getenv(EnvListen)
	if pflag.Lookup("addr").Changed {
		addr = *flagAddr
	}
	if addr == "" {
		addr = ":8080"
	}

	apiKeyHash := os.Getenv(EnvAPIKeyHash)
	if pflag.Lookup("api-key-hash").Changed {
		apiKeyHash = *flagAPIKeyHash
	}
	if apiKeyHash == "" {
		fmt.Fprintf(os.Stderr, "--api-key-hash (or %s) is required\nDo -h for help.\n", EnvAPIKeyHash)
		os.Exit(1)
	}

	tokSecret, err := resolveTokenSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	m, err := loadModel(*flagModelStore, *flagModel)
	if err != nil {
		log.Fatalf("FATAL could not load model: %s", err.Error())
	}

	d := m.Dictionary()
	tmpl, err := features.Parse(bytes.NewReader(m.Template), d)
	if err != nil {
		log.Fatalf("FATAL could not rebuild feature tree from model: %s", err.Error())
	}

	srv := &serveapi.Server{
		Learner:     learner.FromModel(d, tmpl, m.WeightStore()),
		Dict:        d,
		RunID:       m.RunID,
		Fingerprint: m.Fingerprint,
		APIKeyHash:  []byte(apiKeyHash),
		JWTSecret:   tokSecret,
		UnauthDelay: time.Second,
	}

	log.Printf("DEBUG Loaded model %s (%d labels, %d features)", m.RunID, d.NumLabels(), len(m.Entries))
	log.Printf("INFO  Starting eagerparse server %s on %s...", version.Current, addr)
	log.Fatalf("FATAL %s", http.ListenAndServe(addr, srv.Router()))
}

// resolveTokenSecret applies the same secret-normalization rules the flag
// documentation describes: repeat short secrets to at least 32 bytes, refuse
// secrets over 64 bytes, and generate a random one when none is given.
func resolveTokenSecret() ([]byte, error) {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	if tokSecStr == "" {
		tokSecret := make([]byte, 64)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("Could not generate token secret: %s", err.Error())
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < 32 {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > 64 {
		// keys would be chopped at 64, so rather than the user thinking they
		// have more security by giving a longer key, refuse to start.
		return nil, fmt.Errorf("Token secret is %d bytes, but it must be <= 64 bytes", len(tokSecret))
	}
	return tokSecret, nil
}

func loadModel(kind, path string) (modelstore.Model, error) {
	switch kind {
	case "file":
		return modelstore.File{Path: path}.Load("default")
	case "sqlite":
		s, err := modelstore.NewSQLite(path)
		if err != nil {
			return modelstore.Model{}, err
		}
		defer s.Close()
		return s.Load("default")
	default:
		return modelstore.Model{}, fmt.Errorf("unsupported model store backend: %q", kind)
	}
}
