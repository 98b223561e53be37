package app

import (
	"encoding/gob"
	"log"
	"os"

	"github.com/gonuts/commander"
)

var (
	// processing options
	Iterations  int
	Seed        int64
	CostScaling float64

	// file names
	corpusFile string
	modelFile  string
)

// Serialization is the persisted form of a trained model.
type Serialization struct {
	Priors  map[string]float64
	Weights map[string][]float64
}

func WriteModel(file string, data *Serialization) error {
	fObj, err := os.Create(file)
	if err != nil {
		return err
	}
	defer fObj.Close()
	writer := gob.NewEncoder(fObj)
	return writer.Encode(data)
}

func ReadModel(file string) (*Serialization, error) {
	data := &Serialization{}
	fObj, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fObj.Close()
	reader := gob.NewDecoder(fObj)
	if err := reader.Decode(data); err != nil {
		return nil, err
	}
	return data, nil
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}
