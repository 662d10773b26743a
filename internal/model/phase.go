package model

// SearchPhase is the resume point of a placement search
type SearchPhase int

const (
	PhaseWaitingForPiece SearchPhase = iota
	PhaseSearchingPly0
	PhaseSearchingPly1
	PhaseSearchingPly2
	PhaseFinalMoveReady
)

func (p SearchPhase) String() string {
	switch p {
	case PhaseWaitingForPiece:
		return "waiting_for_piece"
	case PhaseSearchingPly0:
		return "searching_ply0"
	case PhaseSearchingPly1:
		return "searching_ply1"
	case PhaseSearchingPly2:
		return "searching_ply2"
	case PhaseFinalMoveReady:
		return "final_move_ready"
	default:
		return "unknown"
	}
}
