package compose

import (
	"fmt"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
)

// Validate resolves every SetupRef, range-checks every WitnessRef, checks
// each WitnessRef's WitnessIndex against the kind of witness slot its
// statement exposes, and transitively merges overlapping equality classes
// via union-find so Prove and Verify can walk a flat partition instead of
// re-discovering transitive equalities at proof time.
func (spec *ProofSpec) Validate() error {
	if len(spec.Statements) == 0 {
		return fmt.Errorf("compose: %w: at least one statement required", common.ErrProofSpecInvalid)
	}

	for i, st := range spec.Statements {
		pst, ok := st.(*PedersenStatement)
		if !ok || pst.SetupIndex == nil {
			continue
		}
		if spec.Setup == nil {
			return fmt.Errorf("compose: %w: statement %d references a setup but ProofSpec.Setup is nil", common.ErrProofSpecInvalid, i)
		}
		idx := *pst.SetupIndex
		if idx < 0 || idx >= len(spec.Setup.PedersenCommitmentKeys) {
			return fmt.Errorf("compose: %w: statement %d has an out-of-range pedersen setup ref", common.ErrProofSpecInvalid, i)
		}
		pst.Bases = spec.Setup.PedersenCommitmentKeys[idx]
	}

	for i, st := range spec.Statements {
		bst, ok := st.(*BBSPlusStatement)
		if !ok {
			continue
		}
		if spec.Setup == nil {
			return fmt.Errorf("compose: %w: statement %d references a setup but ProofSpec.Setup is nil", common.ErrProofSpecInvalid, i)
		}
		if bst.Setup.ParamsIndex < 0 || bst.Setup.ParamsIndex >= len(spec.Setup.BBSParams) {
			return fmt.Errorf("compose: %w: statement %d has an out-of-range params setup ref", common.ErrProofSpecInvalid, i)
		}
		if bst.Setup.KeyIndex < 0 || bst.Setup.KeyIndex >= len(spec.Setup.BBSPublicKeys) {
			return fmt.Errorf("compose: %w: statement %d has an out-of-range key setup ref", common.ErrProofSpecInvalid, i)
		}
		params := spec.Setup.BBSParams[bst.Setup.ParamsIndex]
		if bst.MessageSlotCount != params.SupportedMessageCount() {
			return fmt.Errorf("compose: %w: statement %d's message slot count does not match its params", common.ErrProofSpecInvalid, i)
		}
	}

	uf := newUnionFind()
	for msIdx, ms := range spec.MetaStatements {
		if len(ms.Refs) < 2 {
			return fmt.Errorf("compose: %w: meta-statement %d has fewer than two refs", common.ErrProofSpecInvalid, msIdx)
		}
		for _, ref := range ms.Refs {
			if err := validateRef(spec, ref); err != nil {
				return fmt.Errorf("compose: meta-statement %d: %w", msIdx, err)
			}
		}
		first := ms.Refs[0]
		for _, ref := range ms.Refs[1:] {
			uf.union(first, ref)
		}
	}

	spec.equalityClasses = uf.classes()
	return nil
}

func validateRef(spec *ProofSpec, ref WitnessRef) error {
	if ref.StatementIndex < 0 || ref.StatementIndex >= len(spec.Statements) {
		return fmt.Errorf("%w: statement index %d out of range", common.ErrProofSpecInvalid, ref.StatementIndex)
	}
	st := spec.Statements[ref.StatementIndex]

	switch s := st.(type) {
	case *PedersenStatement:
		if ref.WitnessIndex < 0 || ref.WitnessIndex >= len(s.Bases) {
			return fmt.Errorf("%w: pedersen witness index %d out of range", common.ErrProofSpecInvalid, ref.WitnessIndex)
		}
	case *BBSPlusStatement:
		messageIdx := ref.WitnessIndex - bbs.MessageWitnessSlot(1) + 1
		if messageIdx < 1 || messageIdx > s.MessageSlotCount {
			return fmt.Errorf("%w: bbs+ equality references are only supported on message slots, got witness index %d", common.ErrProofSpecInvalid, ref.WitnessIndex)
		}
	default:
		return fmt.Errorf("%w: unknown statement kind at index %d", common.ErrProofSpecInvalid, ref.StatementIndex)
	}
	return nil
}

// isDisclosedRef reports whether ref addresses a disclosed BBS+ message
// slot, which carries no blinded response and must be equality-checked
// against its claimed disclosed value instead.
func isDisclosedRef(spec *ProofSpec, ref WitnessRef) (messageIndex int, disclosed bool, ok bool) {
	bst, isBBS := spec.Statements[ref.StatementIndex].(*BBSPlusStatement)
	if !isBBS {
		return 0, false, false
	}
	idx := ref.WitnessIndex - bbs.MessageWitnessSlot(1) + 1
	return idx, bst.Disclosed[idx], true
}
