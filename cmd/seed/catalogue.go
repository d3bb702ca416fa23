package main

import listingDomain "github.com/havenstay/service-rental/internal/domain/listing"

const unsplash = "https://images.unsplash.com/"

var catalogue = []listingDomain.Details{
	{
		Title:         "Beach shack steps from Palolem",
		Description:   "Wooden shack with a shaded porch and the sea twenty metres away.",
		Location:      "Goa, India",
		PricePerNight: 3200,
		MaxGuests:     2,
		Images:        []string{unsplash + "photo-1507525428034-b723cf961d3e?auto=format&fit=crop&w=1200&q=80"},
	},
	{
		Title:         "Pool villa in Assagao",
		Description:   "Three bedrooms around a private pool, fifteen minutes from the coast.",
		Location:      "Goa, India",
		PricePerNight: 9800,
		MaxGuests:     6,
		Images:        []string{unsplash + "photo-1523217582562-09d0def993a6?auto=format&fit=crop&w=1200&q=80"},
	},
	{
		Title:         "Indiranagar garden flat",
		Description:   "Quiet one-bedroom with a small garden, close to cafes and the metro.",
		Location:      "Bangalore, India",
		PricePerNight: 2800,
		MaxGuests:     2,
	},
	{
		Title:         "Lake-view room near Hussain Sagar",
		Description:   "Bright private room with a lake view and fast Wi-Fi.",
		Location:      "Hyderabad, India",
		PricePerNight: 2100,
		MaxGuests:     2,
	},
	{
		Title:         "Sea-facing apartment in Bandra",
		Description:   "Two-bedroom apartment on the promenade with a sunset balcony.",
		Location:      "Mumbai, India",
		PricePerNight: 7600,
		MaxGuests:     4,
		Images:        []string{unsplash + "photo-1512453979798-5ea266f8880c?auto=format&fit=crop&w=1200&q=80"},
	},
	{
		Title:         "Apple orchard cottage in Old Manali",
		Description:   "Stone cottage with a wood stove, surrounded by orchards and snow peaks.",
		Location:      "Manali, India",
		PricePerNight: 3600,
		MaxGuests:     4,
	},
	{
		Title:         "Haveli suite in the Pink City",
		Description:   "Restored haveli suite with jharokha windows and a rooftop breakfast.",
		Location:      "Jaipur, India",
		PricePerNight: 5400,
		MaxGuests:     3,
	},
	{
		Title:         "Koregaon Park penthouse",
		Description:   "Penthouse with a wide terrace and skyline views.",
		Location:      "Pune, India",
		PricePerNight: 6100,
		MaxGuests:     3,
	},
}
