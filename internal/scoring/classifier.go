package scoring

// fakeVerdict is the fake-review classifier's output.
type fakeVerdict struct {
	IsFake     bool
	Confidence float64
	RiskScore  float64
}

func classifyFake(probability float64) fakeVerdict {
	p := clamp(probability, 0, 1)
	return fakeVerdict{
		IsFake:     p > FakeThreshold,
		Confidence: p,
		RiskScore:  p * 100,
	}
}

func defaultFakeVerdict() fakeVerdict {
	return fakeVerdict{IsFake: false, Confidence: DefaultConfidence, RiskScore: DefaultRiskScore}
}
