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

func TrainConfigOut() {
	log.Println("Configuration")
	log.Printf("Corpus:      \t%s", corpusFile)
	log.Printf("Iterations:  \t%d", Iterations)
	log.Printf("Seed:        \t%d", Seed)
	log.Printf("Cost Scaling:\t%v", CostScaling)
	log.Println()
	log.Printf("Output:      \t%s", modelFile)
	log.Println()
}

func Train(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"corpus", "out"}

	VerifyFlags(cmd, REQUIRED_FLAGS)

	TrainConfigOut()
	documents, err := corpus.ReadFile(corpusFile)
	if err != nil {
		return fmt.Errorf("failed reading corpus: %v", err)
	}
	log.Println("Read", len(documents), "documents")

	extractor := &extract.InstanceExtractor{
		ExtractSubstructures: coref.RankingSubstructures,
		MentionFeatures:      coref.MentionFeatures(),
		PairwiseFeatures:     coref.PairwiseFeatures(),
		Cost:                 coref.ConsistencyCost,
	}
	log.Println("Extracting instances")
	substructures, info, err := extractor.Extract(documents)
	if err != nil {
		return fmt.Errorf("extraction failed: %v", err)
	}
	log.Println("Extracted", len(substructures), "substructures,", len(info), "arcs")

	model := featurevector.NewAvgDense(nil, CostScaling)
	trainer := &perceptron.LinearPerceptron{
		Iterations: Iterations,
		Seed:       Seed,
		Log:        true,
	}
	trainer.Init(model)
	trainer.Train(substructures, info)

	log.Println("Writing model to", modelFile)
	return WriteModel(modelFile, &Serialization{
		Priors:  model.Priors,
		Weights: model.Weights,
	})
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Train,
		UsageLine: "train <file options> [arguments]",
		Short:     "train a latent perceptron for coreference resolution",
		Long: `
train a latent perceptron for coreference resolution

	$ ./cort train -corpus <corpus file> -out <model file> [options]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&corpusFile, "corpus", "", "YAML corpus input file")
	cmd.Flag.StringVar(&modelFile, "out", "", "output model file")
	cmd.Flag.IntVar(&Iterations, "it", perceptron.DefaultIterations, "number of epochs")
	cmd.Flag.Int64Var(&Seed, "seed", perceptron.DefaultSeed, "random seed for shuffling")
	cmd.Flag.Float64Var(&CostScaling, "cost", 1, "cost scaling for cost-augmented decoding")
	return cmd
}
