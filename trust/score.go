// Package trust scores a wallet from decoded public account state alone.
// The rubric is a fixed additive point table, not a model: any verifier can
// re-derive the same score from the same accounts.
package trust

import "github.com/mmmmuhib/agentvault/chain"

// Factor is one rubric line that fired, with the points it contributed.
// Points can be negative.
type Factor struct {
	Name   string
	Points int
}

type Score struct {
	Value   int
	Grade   string
	Factors []Factor
}

const (
	gradeA = 80
	gradeB = 60
	gradeC = 40
	gradeD = 20
)

// Evaluate applies the rubric to a vault and profile read for the same
// wallet. Either account may be absent; absent accounts simply contribute
// nothing. The result is clamped to [0, 100].
func Evaluate(vault chain.Vault, profile chain.TraderProfile) Score {
	var s Score

	if vault.Exists {
		s.add("vault exists", 20)
		if vault.LockoutDuration > 0 {
			s.add("lockout configured", 10)
		}
		if vault.DailyLossLimit > 0 {
			s.add("daily loss limit set", 10)
		}
		if vault.MaxTradesPerDay >= 1 && vault.MaxTradesPerDay <= 50 {
			s.add("sane trade cap", 10)
		}
		if vault.TotalDeposited > chain.LamportsPerSol {
			s.add("deposited over 1 SOL", 5)
		}
		switch {
		case vault.LockoutCount == 0:
			s.add("never locked out", 5)
		case vault.LockoutCount >= 3:
			s.add("repeated lockouts", -5)
		}
	}

	if profile.Exists {
		s.add("profile exists", 15)
		if profile.TotalTrades >= 10 {
			s.add("10+ trades", 5)
		}
		if profile.TotalTrades >= 100 {
			s.add("100+ trades", 5)
		}
		if profile.TradingDays >= 7 {
			s.add("7+ trading days", 5)
		}
		if profile.Overall >= 60 {
			s.add("overall rating 60+", 5)
		}
		if profile.Discipline >= 70 {
			s.add("discipline 70+", 5)
		}
	}

	if s.Value > 100 {
		s.Value = 100
	}
	if s.Value < 0 {
		s.Value = 0
	}
	s.Grade = grade(s.Value)
	return s
}

func (s *Score) add(name string, points int) {
	s.Factors = append(s.Factors, Factor{Name: name, Points: points})
	s.Value += points
}

func grade(v int) string {
	switch {
	case v >= gradeA:
		return "A"
	case v >= gradeB:
		return "B"
	case v >= gradeC:
		return "C"
	case v >= gradeD:
		return "D"
	default:
		return "F"
	}
}
