package services

import (
	"fmt"
	"math"
	"strings"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/ports"
)

// FormatTime renders minutes after midnight as HH:MM:SS. Hours run past 23
// for service after midnight.
func FormatTime(minutes float64) string {
	sign, minutes := splitSign(minutes)
	hour := int(minutes / 60)
	whole, frac := math.Modf(minutes)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hour, int(whole)-hour*60, int(frac*60))
}

// FormatDuration renders a duration in minutes as H:MM:SS.s with the hours
// right-aligned in two columns. Negative durations lead with a minus sign.
func FormatDuration(minutes float64) string {
	sign, minutes := splitSign(minutes)
	hours := int(minutes / 60)
	whole, frac := math.Modf(minutes - 60*float64(hours))
	return fmt.Sprintf("%2s:%02d:%04.1f", sign+fmt.Sprint(hours), int(whole), frac*60)
}

func splitSign(minutes float64) (string, float64) {
	if minutes < 0 {
		return "-", -minutes
	}
	return "", minutes
}

// LegFormatter lays out legs as fixed-width table rows for traces and the
// verbose export.
type LegFormatter struct {
	Labels  ports.Labeler
	Network ports.NetworkProvider
}

// ModeLabel names a leg's mode; trips show their vehicle supply mode.
func (f LegFormatter) ModeLabel(leg domain.Leg) string {
	switch leg.Mode {
	case domain.ModeAccess:
		return "Access"
	case domain.ModeEgress:
		return "Egress"
	case domain.ModeTransfer:
		return "Transfer"
	case domain.ModeTrip:
		info, ok := f.Network.TripInfo(leg.TripID)
		if !ok {
			return "???"
		}
		return f.Labels.ModeLabel(info.SupplyMode)
	default:
		panic(fmt.Sprintf("services: leg has unrecognized mode %d", int(leg.Mode)))
	}
}

func (f LegFormatter) ident(leg domain.Leg) string {
	switch leg.Mode {
	case domain.ModeTrip:
		return f.Labels.TripLabel(leg.TripID)
	case domain.ModeAccess, domain.ModeEgress:
		return f.Labels.ModeLabel(leg.SupplyMode)
	default:
		return "-"
	}
}

const legRowFormat = "%10s %10s %12s %4s %10s %4s %10s %10s %10s %10s %10s"

func (f LegFormatter) Header(outbound bool) string {
	succPred := "succ_stop"
	if !outbound {
		succPred = "pred_stop"
	}
	return strings.TrimRight(fmt.Sprintf(legRowFormat,
		"stop", "mode", "trip/link", "seq", succPred, "seq",
		"depart", "arrive", "duration", "link_cost", "cost",
	), " ")
}

func (f LegFormatter) Row(stopID int, leg domain.Leg, outbound bool) string {
	return fmt.Sprintf(legRowFormat,
		f.Labels.StopLabel(stopID),
		f.ModeLabel(leg),
		f.ident(leg),
		fmt.Sprint(leg.Seq),
		f.Labels.StopLabel(leg.SuccPredStop),
		fmt.Sprint(leg.SuccPredSeq),
		FormatTime(leg.Depart(outbound)),
		FormatTime(leg.Arrive(outbound)),
		FormatDuration(leg.Duration),
		fmt.Sprintf("%.4f", leg.LinkCost),
		fmt.Sprintf("%.4f", leg.CumulativeCost),
	)
}
