package catalog

// PageToken is one slot of the pagination control: a page number, or
// Ellipsis for a compressed gap.
type PageToken int

// Ellipsis обозначает пропуск в окне страниц
const Ellipsis PageToken = -1

// IsEllipsis reports whether the token is a gap marker.
func (t PageToken) IsEllipsis() bool { return t == Ellipsis }

// Window compresses a page range into at most 5 visible slots so the
// pagination control stays constant-width no matter how big the catalog
// is. The middle branch shows only the current page, without a local
// neighborhood — coarser than the boundary branches, kept that way on
// purpose.
//
// TODO: consider showing current±1 in the middle branch once the catalog
// UI settles on a wider control.
func Window(current, total int) []PageToken {
	switch {
	case total <= 0:
		// no pages, no control
		return nil

	case total <= 7:
		w := make([]PageToken, total)
		for i := range w {
			w[i] = PageToken(i + 1)
		}
		return w

	case current <= 3:
		return []PageToken{1, 2, 3, Ellipsis, PageToken(total)}

	case current >= total-2:
		return []PageToken{1, Ellipsis, PageToken(total - 2), PageToken(total - 1), PageToken(total)}

	default:
		return []PageToken{1, Ellipsis, PageToken(current), Ellipsis, PageToken(total)}
	}
}
