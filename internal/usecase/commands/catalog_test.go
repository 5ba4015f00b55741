//go:build unit

package commands_test

import (
	"time"

	"studio-booking/internal/domain/studio"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
)

func (s *CommandsTestSuite) TestCreateStudio() {
	s.Run("stores the normalized studio", func() {
		id, err := s.catalog.CreateStudio(s.ctx, studio.NewStudioParams{
			OwnerID:   ownerID,
			Name:      " Iron House ",
			City:      ptr.Of("Berlin"),
			Amenities: []string{"showers", "showers"},
		})
		s.Require().NoError(err)

		st, err := s.store.FindStudio(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Iron House", st.Name)
		s.Equal([]string{"showers"}, st.Amenities)
		s.True(st.IsActive)
		s.Equal(s.clock.Now(), st.CreatedAt)
	})

	s.Run("invalid params store nothing", func() {
		_, err := s.catalog.CreateStudio(s.ctx, studio.NewStudioParams{OwnerID: ownerID, Name: "X", Latitude: ptr.Of(10.0)})
		s.ErrorIs(err, errs.ErrValidation)
	})
}

func (s *CommandsTestSuite) TestUpdateStudio() {
	s.Run("owner updates and deactivates", func() {
		s.clock.Add(time.Minute)
		err := s.catalog.UpdateStudio(s.ctx, ownerID, s.studioID, studio.UpdateParams{
			City:      ptr.Of("Hamburg"),
			Latitude:  ptr.Of(53.55),
			Longitude: ptr.Of(9.99),
			IsActive:  ptr.Of(false),
		})
		s.Require().NoError(err)

		st, err := s.store.FindStudio(s.ctx, s.studioID)
		s.Require().NoError(err)
		s.Equal(ptr.Of("Hamburg"), st.City)
		s.Equal(ptr.Of(53.55), st.Latitude)
		s.False(st.IsActive)
		s.Equal(s.clock.Now(), st.UpdatedAt)
	})

	s.Run("non-owner is forbidden and nothing changes", func() {
		before, err := s.store.FindStudio(s.ctx, s.studioID)
		s.Require().NoError(err)

		err = s.catalog.UpdateStudio(s.ctx, ownerID+1, s.studioID, studio.UpdateParams{Name: ptr.Of("Taken Over")})
		s.ErrorIs(err, errs.ErrForbidden)

		after, err := s.store.FindStudio(s.ctx, s.studioID)
		s.Require().NoError(err)
		s.Equal(before.Name, after.Name)
	})

	s.Run("invalid update is rejected", func() {
		err := s.catalog.UpdateStudio(s.ctx, ownerID, s.studioID, studio.UpdateParams{Longitude: ptr.Of(200.0)})
		s.ErrorIs(err, errs.ErrValidation)
	})

	s.Run("missing studio is not found", func() {
		err := s.catalog.UpdateStudio(s.ctx, ownerID, 999, studio.UpdateParams{Name: ptr.Of("Ghost")})
		s.ErrorIs(err, errs.ErrStudioNotFound)
	})
}
