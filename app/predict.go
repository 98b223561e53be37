package app

import (
	"fmt"
	"log"

	"github.com/npow/cort/alg/featurevector"
	"github.com/npow/cort/alg/perceptron"
	"github.com/npow/cort/nlp/coref"
	"github.com/npow/cort/nlp/extract"
	"github.com/npow/cort/nlp/format/corpus"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func PredictConfigOut() {
	log.Println("Configuration")
	log.Printf("Corpus:\t%s", corpusFile)
	log.Printf("Model: \t%s", modelFile)
	log.Println()
}

func Predict(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"corpus", "model"}

	VerifyFlags(cmd, REQUIRED_FLAGS)

	PredictConfigOut()
	documents, err := corpus.ReadFile(corpusFile)
	if err != nil {
		return fmt.Errorf("failed reading corpus: %v", err)
	}
	log.Println("Read", len(documents), "documents")

	serialized, err := ReadModel(modelFile)
	if err != nil {
		return fmt.Errorf("failed reading model: %v", err)
	}
	model := featurevector.AvgDenseFrom(serialized.Priors, serialized.Weights, 0)

	extractor := &extract.InstanceExtractor{
		ExtractSubstructures: coref.RankingSubstructures,
		MentionFeatures:      coref.MentionFeatures(),
		PairwiseFeatures:     coref.PairwiseFeatures(),
		Cost:                 coref.ZeroCost,
	}
	log.Println("Extracting instances")
	substructures, info, err := extractor.Extract(documents)
	if err != nil {
		return fmt.Errorf("extraction failed: %v", err)
	}

	predictor := &perceptron.LinearPerceptron{}
	predictor.Init(model)
	arcs, _, scores := predictor.Predict(substructures, info)

	for i := range arcs {
		for j, arc := range arcs[i] {
			fmt.Printf("%v <- %v\t%v\n", arc.Anaphor, arc.Antecedent, scores[i][j])
		}
	}
	return nil
}

func PredictCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Predict,
		UsageLine: "predict <file options> [arguments]",
		Short:     "predict antecedents with a trained model",
		Long: `
predict antecedents with a trained model

	$ ./cort predict -corpus <corpus file> -model <model file> [options]

`,
		Flag: *flag.NewFlagSet("predict", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&corpusFile, "corpus", "", "YAML corpus input file")
	cmd.Flag.StringVar(&modelFile, "model", "", "trained model file")
	return cmd
}
