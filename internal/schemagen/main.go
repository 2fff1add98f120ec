package main

import (
	"flag"
	"log"
	"os"

	"github.com/grouperdev/grouper/pkg/grouping"
	"github.com/grouperdev/grouper/pkg/yaml"
)

var outFile = flag.String("o", "rules.v1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(&grouping.Config{},
		yaml.CommentPath{Base: "github.com/grouperdev/grouper", Dir: "../.."},
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
