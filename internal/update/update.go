package update

import (
	"math"

	"mindprint/internal/belief"
)

// #region apply
// Apply is a pure function computing the posterior belief from a prior and one
// answer's evidence. Each trait updates independently via the 1-D Gaussian
// conjugate rule:
//
//	postVar = 1 / (1/priorVar + 1/likeVar)
//	postMu  = postVar * (priorMu/priorVar + likeMu/likeVar)
//
// Evidence always carries a full 28-length target vector: traits the question
// never mentions arrive as 0.5, so every answer also nudges unmentioned
// traits back toward the neutral prior with the option's confidence.
// Posterior means are clamped to [0,1] and sigmas to [MinSigma, MaxSigma],
// so sigma can never collapse to zero and break a later update.
func Apply(prior belief.Belief, ev Evidence) Result {
	post := prior

	likeSigma := ev.Sigma
	if likeSigma < belief.MinSigma {
		likeSigma = belief.MinSigma
	}
	likeVar := likeSigma * likeSigma

	var meanShift, sigmaDrop float64
	for i := 0; i < belief.Dim; i++ {
		priorVar := prior.Sigma[i] * prior.Sigma[i]
		postVar := 1 / (1/priorVar + 1/likeVar)
		postMu := postVar * (prior.Mu[i]/priorVar + ev.TargetMu[i]/likeVar)

		post.Mu[i] = belief.ClampMu(postMu)
		post.Sigma[i] = belief.ClampSigma(math.Sqrt(postVar))

		meanShift += math.Abs(post.Mu[i] - prior.Mu[i])
		sigmaDrop += prior.Sigma[i] - post.Sigma[i]
	}

	return Result{
		Posterior: post,
		Metrics: Metrics{
			MeanShift:     meanShift,
			SigmaDrop:     sigmaDrop,
			EntropyBefore: prior.Entropy(),
			EntropyAfter:  post.Entropy(),
		},
	}
}

// #endregion apply
