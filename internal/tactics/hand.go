package tactics

// CardDealer draws a fixed number of cards at the start of each turn and
// takes them back when the turn ends.
type CardDealer struct {
	events   *Events
	handSize int
	logger   Logger
}

func NewCardDealer(events *Events, handSize int, logger Logger) *CardDealer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &CardDealer{events: events, handSize: handSize, logger: logger}
}

func (d *CardDealer) Replenish(c *Combatant) {
	drawn := d.DrawFor(c)
	if len(drawn) == 0 {
		return
	}
	d.events.CardsDrawn.Emit(CardEvent{Combatant: c, Cards: drawn})
}

func (d *CardDealer) Return(c *Combatant) {
	returned := c.ReturnCards()
	if len(returned) == 0 {
		return
	}
	d.logger.Printf("DEBUG: %s returned %d cards", c.ID, len(returned))
	d.events.CardsReturned.Emit(CardEvent{Combatant: c, Cards: returned})
}

// DrawFor tops c's hand up to the configured size
func (d *CardDealer) DrawFor(c *Combatant) []Card {
	need := d.handSize - len(c.Hand)
	if need <= 0 {
		return nil
	}
	drawn := c.DrawCards(need)
	d.logger.Printf("DEBUG: %s drew %d cards", c.ID, len(drawn))
	return drawn
}
