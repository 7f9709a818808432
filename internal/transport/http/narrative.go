package http

import "gemscope/internal/charts"

const dashboardTitle = "Diamond analysis"

var introText = []string{
	"This page presents an analysis of diamonds based on color, clarity and cut.",
	"The purpose of the analysis is to evaluate the properties of the diamonds, " +
		"their color, cut and clarity, in order to identify the segments with a stable " +
		"development of value and a varied supply across price ranges. This gives " +
		"Guldfynd a basis for strategic investment decisions in Wesselton diamonds.",
}

var panelText = map[charts.Panel][]string{
	charts.PanelColorDistribution: {
		"Diamonds in the color range D to G show an optimal balance between an excluded " +
			"tint and cost efficiency. These stones meet the requirement of a nearly " +
			"colorless appearance, which is central to a premium product, at a price that " +
			"allows a broader market positioning.",
	},
	charts.PanelPriceByColor: {
		"The number of diamonds graded G can be explained by its popularity, partly " +
			"because they are near colorless on the GIA scale. Diamonds from D to F are " +
			"generally more expensive since they are colorless, yet the mean price per " +
			"diamond is lower than for G. If the price is lower than G, Guldfynd may be " +
			"able to offer colorless diamonds at a more competitive price.",
	},
	charts.PanelCutDistribution: {
		"Most diamonds in the filtered segment have an Ideal or Premium cut. This " +
			"reflects an emphasis on high light return and clean design, which strengthens " +
			"the visual appeal of the assortment. These cut grades also ensure a uniform " +
			"finish with strong market demand.",
	},
	charts.PanelPriceVsCarat: {
		"Price and carat have a clear relationship: the larger the diamond, the more " +
			"expensive it is. Larger diamonds are rarer and require more rough material " +
			"to be preserved when cut. The price does not grow linearly, though. A diamond " +
			"twice the size usually costs more than twice as much because demand for large " +
			"stones is high and supply is limited. Clarity, color and cut also affect the price.",
		"The selected clarity grades show a stable price picture with limited spread. " +
			"Despite minor visible inclusions these diamonds can hold their value and meet " +
			"customer expectations of quality, which makes them well suited for both the " +
			"premium and the mid-range market.",
	},
	charts.PanelPriceByClarity: {
		"The scatter and bar charts show a clear, positive relationship between carat " +
			"and price, and the clarity grades give predictable pricing. Guldfynd can " +
			"therefore offer diamonds in several sizes and price ranges without " +
			"compromising on visual or qualitative standards.",
	},
}

const conclusionText = "The analysis shows that diamonds with colors between D and G, " +
	"combined with the Premium, Ideal and Very Good cut grades and the clarities VS1, " +
	"VS2, VVS1, VVS2 and IF, form an attractive and stable product category for " +
	"Guldfynd. These diamonds, often called Wesselton diamonds, offer versatility " +
	"across price ranges and a balanced combination of visual quality, stable value " +
	"development and varied supply."
