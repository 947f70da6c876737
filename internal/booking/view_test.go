package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableActions(t *testing.T) {
	assert.Empty(t, Initial().AvailableActions())
	assert.Equal(t, []Action{ActionReloadConfig}, Initial().FailConfig(MsgConfigFailed).AvailableActions())

	noDates := Initial().SetConfig(hotelConfig())
	assert.Equal(t, []Action{ActionSetDates, ActionSetAdults, ActionReset}, noDates.AvailableActions())

	assert.Equal(t,
		[]Action{ActionSetDates, ActionSetAdults, ActionCheckAvailability, ActionReset},
		loaded().AvailableActions(),
	)

	room := onRoomStep(100)
	assert.Equal(t, []Action{ActionSelectRoom, ActionToggleProduct, ActionGoToStep, ActionReset}, room.AvailableActions())

	room, err := room.SelectRoom(roomID, "EUR")
	require.NoError(t, err)
	assert.Contains(t, room.AvailableActions(), ActionContinueToGuest)

	confirm := confirmStep(t)
	assert.Equal(t, []Action{ActionConfirmBooking, ActionGoToStep, ActionReset}, confirm.AvailableActions())

	submitting, err := confirm.SubmitReservation()
	require.NoError(t, err)
	assert.Empty(t, submitting.AvailableActions())

	done, err := submitting.ConfirmReservation("4821")
	require.NoError(t, err)
	assert.Equal(t, []Action{ActionReset}, done.AvailableActions())
}

func TestRooms(t *testing.T) {
	rooms := onRoomStep(100).Rooms("EUR")

	require.Len(t, rooms, 1)
	assert.Equal(t, roomID, rooms[0].Category.ID)
	require.NotNil(t, rooms[0].Quote)
	assert.Equal(t, 300.0, rooms[0].Quote.Total)

	unpriced := onRoomStep(100).Rooms("USD")
	require.Len(t, unpriced, 1)
	assert.Nil(t, unpriced[0].Quote)

	assert.Empty(t, loaded().Rooms("EUR"))
}

func TestSummary(t *testing.T) {
	assert.Nil(t, onRoomStep(100).Summary())

	s, err := onRoomStep(100).SelectRoom(roomID, "EUR")
	require.NoError(t, err)
	s, err = s.ToggleProduct(parkingID)
	require.NoError(t, err)

	summary := s.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, 300.0, summary.RoomTotal)
	// breakfast 12 and parking 5, both for 3 nights
	assert.Equal(t, 51.0, summary.ProductsTotal)
	assert.Equal(t, 351.0, summary.GrandTotal)
	assert.Len(t, summary.Products, 2)
}

func TestSummary_CoversEffectiveProducts(t *testing.T) {
	s, err := onRoomStep(100).SelectRoom(roomID, "EUR")
	require.NoError(t, err)

	summary := s.Summary()
	require.NotNil(t, summary)

	lines := make([]string, 0, len(summary.Products))
	for _, p := range summary.Products {
		lines = append(lines, p.ProductID)
	}
	assert.ElementsMatch(t, s.EffectiveProductIDs(), lines)
}
