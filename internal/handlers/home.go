package handlers

import (
	"murerholbaek.dk/web/internal/catalog"
)

// ServiceCard is a teaser for one service on the home and index pages.
type ServiceCard struct {
	Href        string
	Title       string
	Description string
	Image       string
}

// HomeData is the payload of the landing page.
type HomeData struct {
	Services []ServiceCard
}

// ServicesIndex is the payload of the /services page.
type ServicesIndex struct {
	Services []ServiceCard
}

// BuildHomeData constructs the landing page payload from the catalog.
func BuildHomeData(services []catalog.Service) HomeData {
	return HomeData{Services: serviceCards(services)}
}

// BuildServicesIndex constructs the /services payload.
func BuildServicesIndex(services []catalog.Service) ServicesIndex {
	return ServicesIndex{Services: serviceCards(services)}
}

func serviceCards(services []catalog.Service) []ServiceCard {
	cards := make([]ServiceCard, 0, len(services))
	for _, s := range services {
		cards = append(cards, ServiceCard{
			Href:        "/services/" + s.Slug,
			Title:       s.Title,
			Description: s.Description,
			Image:       s.HeroImage,
		})
	}
	return cards
}
