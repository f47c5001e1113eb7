package plugin_test

import (
	"fmt"

	"github.com/cwbudde/algo-feedbackws/plugin"
)

func ExamplePlugin_ParameterText() {
	p, err := plugin.New(plugin.CanonicalLayout())
	if err != nil {
		panic(err)
	}

	p.SetParameter(0, 0.5)
	p.SetParameter(4, 0.75)

	for i := 0; i < p.Info().Parameters; i++ {
		fmt.Printf("%-12s %s\n", p.ParameterName(i), p.ParameterText(i))
	}
	// Output:
	// function     x * sin(x^2 + a))
	// parameter a  0.000
	// parameter b  0.000
	// feedback     0.500
	// gain         0.750
	// stereo       0.000
	// stereo freq  0.100
	// beta         0.990
}
