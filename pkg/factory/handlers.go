package factory

// HandleDashboardOrder validates the color and overwrites the order.
func HandleDashboardOrder(s *Store, p Payload) Response {
	color := p.Text("color")
	if !color.Set {
		return errorResponse(ErrInvalidColor)
	}
	c, ok := ParseColor(color.Value)
	if !ok {
		return errorResponse(ErrInvalidColor)
	}
	order := s.UpdateOrder(c, p.Field("status"))
	return Response{Message: MsgOrderUpdated, Order: &order}
}

// HandleFactoryStatus echoes the payload.
func HandleFactoryStatus(_ *Store, p Payload) Response {
	return Response{Message: MsgStatusReceived, Data: &p}
}

// HandleNfcEvent appends an entry to the NFC log.
func HandleNfcEvent(s *Store, p Payload) Response {
	e := s.AppendNfc(p.Field("pieceID"), p.Field("state"))
	return Response{Message: MsgNfcLogged, Entry: &e}
}

// HandleStockUpdate places a piece in a slot and returns the full map.
func HandleStockUpdate(s *Store, p Payload) Response {
	loc := p.Text("location")
	if !loc.Set {
		return errorResponse(ErrInvalidLocation)
	}
	l, ok := ParseLocation(loc.Value)
	if !ok {
		return errorResponse(ErrInvalidLocation)
	}
	return Response{Message: MsgStockUpdated, Stock: s.SetStock(l, p.Field("piece"))}
}
