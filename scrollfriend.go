package scrollfriend

const Version = `0.2.0`
const Slogan = `Your friendly friend in scrolling things into view.`
